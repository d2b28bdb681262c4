package domain

import "strings"

// CardQuality ranks card conditions from worst to best. The integer values
// make quality comparable with the usual operators. The zero value,
// QualityUnknown, means the condition text was not recognized.
type CardQuality int

const (
	QualityUnknown CardQuality = iota
	QualityDamaged
	QualityHeavilyPlayed
	QualityPlayed
	QualityModeratelyPlayed
	QualityLightlyPlayed
	QualityNearMint
	QualityMint
)

// qualityNames maps the many spellings stores use onto one rank.
var qualityNames = map[string]CardQuality{
	"mint": QualityMint,
	"m":    QualityMint,

	"near mint": QualityNearMint,
	"nearmint":  QualityNearMint,
	"nm":        QualityNearMint,

	"lightly played": QualityLightlyPlayed,
	"lightlyplayed":  QualityLightlyPlayed,
	"light play":     QualityLightlyPlayed,
	"lp":             QualityLightlyPlayed,

	"moderately played": QualityModeratelyPlayed,
	"moderatelyplayed":  QualityModeratelyPlayed,
	"moderate play":     QualityModeratelyPlayed,
	"mp":                QualityModeratelyPlayed,

	"played": QualityPlayed,
	"pl":     QualityPlayed,
	"p":      QualityPlayed,

	"heavily played": QualityHeavilyPlayed,
	"heavilyplayed":  QualityHeavilyPlayed,
	"heavy played":   QualityHeavilyPlayed,
	"heavy play":     QualityHeavilyPlayed,
	"hp":             QualityHeavilyPlayed,

	"damaged": QualityDamaged,
	"dmg":     QualityDamaged,
	"poor":    QualityDamaged,
}

// QualityOptions lists the accepted minimum-quality names for config
// validation and API help text, best to worst.
var QualityOptions = []string{"mint", "nm", "lp", "mp", "played", "hp", "damaged"}

// ParseQuality converts a free-text condition into a CardQuality. Matching is
// case-insensitive and tolerant of the common abbreviations. Unrecognized
// text yields QualityUnknown.
func ParseQuality(condition string) CardQuality {
	normalized := strings.ToLower(strings.TrimSpace(condition))
	if normalized == "" {
		return QualityUnknown
	}
	return qualityNames[normalized]
}

// String returns the display name for the quality level.
func (q CardQuality) String() string {
	switch q {
	case QualityMint:
		return "Mint"
	case QualityNearMint:
		return "Near Mint"
	case QualityLightlyPlayed:
		return "Lightly Played"
	case QualityModeratelyPlayed:
		return "Moderately Played"
	case QualityPlayed:
		return "Played"
	case QualityHeavilyPlayed:
		return "Heavily Played"
	case QualityDamaged:
		return "Damaged"
	default:
		return "Unknown"
	}
}

// MeetsMinimumQuality reports whether a condition string satisfies the given
// quality floor. A QualityUnknown floor means no restriction. With a floor
// set, condition text that cannot be parsed fails the check: an offer whose
// condition we cannot read is never assumed to be good enough.
func MeetsMinimumQuality(condition string, min CardQuality) bool {
	if min == QualityUnknown {
		return true
	}
	quality := ParseQuality(condition)
	if quality == QualityUnknown {
		return false
	}
	return quality >= min
}
