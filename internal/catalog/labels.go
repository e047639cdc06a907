package catalog

import "github.com/naranjo-adr-assessor/internal/domain"

var interpretationLabels = map[domain.Locale]map[domain.Interpretation]string{
	domain.LOCALE_TH: {
		domain.DEFINITE: "ใช่แน่นอน (Definite)",
		domain.PROBABLE: "น่าจะใช่ (Probable)",
		domain.POSSIBLE: "อาจจะใช่ (Possible)",
		domain.DOUBTFUL: "น่าสงสัย (Doubtful)",
	},
	domain.LOCALE_EN: {
		domain.DEFINITE: "Definite ADR",
		domain.PROBABLE: "Probable ADR",
		domain.POSSIBLE: "Possible ADR",
		domain.DOUBTFUL: "Doubtful ADR",
	},
	domain.LOCALE_LO: {
		domain.DEFINITE: "ແມ່ນແນ່ນອນ (Definite)",
		domain.PROBABLE: "ໜ້າຈະແມ່ນ (Probable)",
		domain.POSSIBLE: "ອາດຈະແມ່ນ (Possible)",
		domain.DOUBTFUL: "ໜ້າສົງໄສ (Doubtful)",
	},
	domain.LOCALE_MY: {
		domain.DEFINITE: "သေချာပါသည် (Definite)",
		domain.PROBABLE: "ဖြစ်နိုင်ချေများသည် (Probable)",
		domain.POSSIBLE: "ဖြစ်နိုင်ချေရှိသည် (Possible)",
		domain.DOUBTFUL: "သံသယဖြစ်ဖွယ် (Doubtful)",
	},
}

var riskLabels = map[domain.Locale]map[domain.RiskFactor]string{
	domain.LOCALE_TH: {
		domain.RISK_LOW:     "ต่ำ",
		domain.RISK_MEDIUM:  "ปานกลาง",
		domain.RISK_HIGH:    "สูง",
		domain.RISK_UNKNOWN: "ไม่ทราบ",
	},
	domain.LOCALE_EN: {
		domain.RISK_LOW:     "Low",
		domain.RISK_MEDIUM:  "Medium",
		domain.RISK_HIGH:    "High",
		domain.RISK_UNKNOWN: "Unknown",
	},
	domain.LOCALE_LO: {
		domain.RISK_LOW:     "ຕໍ່າ",
		domain.RISK_MEDIUM:  "ປານກາງ",
		domain.RISK_HIGH:    "ສູງ",
		domain.RISK_UNKNOWN: "ບໍ່ຮູ້",
	},
	domain.LOCALE_MY: {
		domain.RISK_LOW:     "အနိမ့်",
		domain.RISK_MEDIUM:  "အလယ်အလတ်",
		domain.RISK_HIGH:    "အမြင့်",
		domain.RISK_UNKNOWN: "မသိ",
	},
}

// languageNames is how each locale is named inside AI prompts.
var languageNames = map[domain.Locale]string{
	domain.LOCALE_TH: "Thai (ภาษาไทย)",
	domain.LOCALE_EN: "English",
	domain.LOCALE_LO: "Lao (ພາສາລາວ)",
	domain.LOCALE_MY: "Burmese (မြန်မာဘာသာ)",
}

// InterpretationLabel returns the localized display label, falling back to the
// canonical English name.
func InterpretationLabel(locale domain.Locale, i domain.Interpretation) string {
	if label, ok := interpretationLabels[locale][i]; ok {
		return label
	}
	return i.String()
}

// RiskLabel returns the localized risk-factor label.
func RiskLabel(locale domain.Locale, r domain.RiskFactor) string {
	if label, ok := riskLabels[locale][r]; ok {
		return label
	}
	return r.String()
}

// LanguageName returns the prompt language name for a locale; English when unknown.
func LanguageName(locale domain.Locale) string {
	if name, ok := languageNames[locale]; ok {
		return name
	}
	return languageNames[domain.LOCALE_EN]
}
