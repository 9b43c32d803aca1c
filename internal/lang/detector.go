// Package lang heuristically classifies transcript text as Malay, English,
// or mixed. The result steers the transcription hint and the language
// instruction sent to the generation prompts, so the remote model never has
// to re-detect the language itself.
package lang

import (
	"regexp"
	"strings"
)

// Label is the detected dominant language of a text.
type Label string

const (
	Malay   Label = "malay"
	English Label = "english"
	Mixed   Label = "mixed"
)

// Classification thresholds on the indicator score (percent of words that
// look Malay). The boundaries are exclusive: a score of exactly 30 is Mixed,
// a score of exactly 10 is English.
const (
	malayThreshold = 30.0
	mixedThreshold = 10.0
)

// Detection is the detector's result: the dominant language and the
// percentage of words that matched a Malay indicator.
type Detection struct {
	Label Label
	Score float64
}

// malayWords is a closed-class list of common Malay words. Function words
// dominate because they appear in any register; a few school-domain nouns
// are included since the recordings are study notes.
var malayWords = map[string]bool{
	// Pronouns and determiners.
	"saya": true, "anda": true, "awak": true, "kamu": true, "dia": true,
	"kami": true, "kita": true, "mereka": true, "ini": true, "itu": true,
	// Function words.
	"dan": true, "atau": true, "dengan": true, "untuk": true, "dalam": true,
	"pada": true, "dari": true, "kepada": true, "yang": true, "juga": true,
	"tidak": true, "bukan": true, "jangan": true, "sudah": true, "belum": true,
	"akan": true, "boleh": true, "mesti": true, "harus": true, "ada": true,
	"adalah": true, "ialah": true, "kerana": true, "tetapi": true, "kalau": true,
	"jika": true, "sangat": true, "lagi": true, "semua": true, "banyak": true,
	"sedikit": true, "macam": true, "mana": true, "bila": true, "kenapa": true,
	"bagaimana": true, "sini": true, "sana": true, "nak": true, "tak": true,
	// Common verbs and school vocabulary.
	"suka": true, "belajar": true, "faham": true, "ingat": true, "baca": true,
	"tulis": true, "buat": true, "pergi": true, "makan": true, "ulangkaji": true,
	"sekolah": true, "kelas": true, "guru": true, "cikgu": true, "murid": true,
	"buku": true, "nota": true, "soalan": true, "jawapan": true, "latihan": true,
	"peperiksaan": true, "ujian": true, "matematik": true, "sains": true,
	"sejarah": true, "bahasa": true, "esok": true, "hari": true, "minggu": true,
	"masa": true, "tahun": true, "rumah": true, "baik": true, "bagus": true,
	"penting": true, "susah": true, "senang": true,
}

// Malay morphological affixes. Prefix matches require some stem after the
// prefix (3+ letters) to avoid firing on short English words.
var (
	malayPrefixRe = regexp.MustCompile(`^(me[nmr]?|ber|ter|di|pe[nm]?|se)[a-z]{3,}$`)
	malaySuffixRe = regexp.MustCompile(`^[a-z]{3,}(kan|lah|nya|kah)$`)
)

// malayAccents are accented characters seen in informal Malay transcriptions
// (e.g. dialectal spellings). Rare, but a strong signal when present.
const malayAccents = "éèêë"

// Detect classifies text by the share of words carrying a Malay indicator:
// membership in the closed-class word list, a Malay affix pattern, or a
// Malay-typical accented character. Each word counts at most once.
// Empty text is English with score 0, never an error.
func Detect(text string) Detection {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return Detection{Label: English, Score: 0}
	}

	hits := 0
	for _, w := range words {
		if isMalayIndicator(w) {
			hits++
		}
	}

	score := float64(hits) / float64(len(words)) * 100

	switch {
	case score > malayThreshold:
		return Detection{Label: Malay, Score: score}
	case score > mixedThreshold:
		return Detection{Label: Mixed, Score: score}
	default:
		return Detection{Label: English, Score: score}
	}
}

// isMalayIndicator reports whether a single lowercased word carries any
// Malay signal.
func isMalayIndicator(w string) bool {
	w = strings.Trim(w, ".,!?;:\"'()[]")
	if w == "" {
		return false
	}
	if malayWords[w] {
		return true
	}
	if strings.ContainsAny(w, malayAccents) {
		return true
	}
	return malayPrefixRe.MatchString(w) || malaySuffixRe.MatchString(w)
}
