// Package langmeta maps KDE language codes (de, pt_BR, sr@latin) to
// display names used in the statistics report and CLI output.
package langmeta

import "strings"

// Meta describes one language.
type Meta struct {
	// Name is the language's own name for itself.
	Name string
	// English is the English name.
	English string
}

// Registry is keyed by canonical KDE codes: lowercase language, optional
// uppercase region after "_", optional "@variant".
var Registry = map[string]Meta{
	"af":           {Name: "Afrikaans", English: "Afrikaans"},
	"ar":           {Name: "العربية", English: "Arabic"},
	"as":           {Name: "অসমীয়া", English: "Assamese"},
	"ast":          {Name: "Asturianu", English: "Asturian"},
	"be":           {Name: "Беларуская", English: "Belarusian"},
	"be@latin":     {Name: "Biełaruskaja", English: "Belarusian (Latin)"},
	"bg":           {Name: "Български", English: "Bulgarian"},
	"bn":           {Name: "বাংলা", English: "Bengali"},
	"bn_IN":        {Name: "বাংলা (ভারত)", English: "Bengali (India)"},
	"br":           {Name: "Brezhoneg", English: "Breton"},
	"bs":           {Name: "Bosanski", English: "Bosnian"},
	"ca":           {Name: "Català", English: "Catalan"},
	"ca@valencia":  {Name: "Català (Valencià)", English: "Catalan (Valencian)"},
	"crh":          {Name: "Qırımtatarca", English: "Crimean Tatar"},
	"cs":           {Name: "Čeština", English: "Czech"},
	"csb":          {Name: "Kaszëbsczi", English: "Kashubian"},
	"cy":           {Name: "Cymraeg", English: "Welsh"},
	"da":           {Name: "Dansk", English: "Danish"},
	"de":           {Name: "Deutsch", English: "German"},
	"el":           {Name: "Ελληνικά", English: "Greek"},
	"en_GB":        {Name: "British English", English: "English (UK)"},
	"eo":           {Name: "Esperanto", English: "Esperanto"},
	"es":           {Name: "Español", English: "Spanish"},
	"et":           {Name: "Eesti", English: "Estonian"},
	"eu":           {Name: "Euskara", English: "Basque"},
	"fa":           {Name: "فارسی", English: "Persian"},
	"fi":           {Name: "Suomi", English: "Finnish"},
	"fr":           {Name: "Français", English: "French"},
	"fy":           {Name: "Frysk", English: "Frisian"},
	"ga":           {Name: "Gaeilge", English: "Irish"},
	"gl":           {Name: "Galego", English: "Galician"},
	"gu":           {Name: "ગુજરાતી", English: "Gujarati"},
	"he":           {Name: "עברית", English: "Hebrew"},
	"hi":           {Name: "हिन्दी", English: "Hindi"},
	"hne":          {Name: "छत्तीसगढ़ी", English: "Chhattisgarhi"},
	"hr":           {Name: "Hrvatski", English: "Croatian"},
	"hsb":          {Name: "Hornjoserbsce", English: "Upper Sorbian"},
	"hu":           {Name: "Magyar", English: "Hungarian"},
	"ia":           {Name: "Interlingua", English: "Interlingua"},
	"id":           {Name: "Bahasa Indonesia", English: "Indonesian"},
	"is":           {Name: "Íslenska", English: "Icelandic"},
	"it":           {Name: "Italiano", English: "Italian"},
	"ja":           {Name: "日本語", English: "Japanese"},
	"kk":           {Name: "Қазақша", English: "Kazakh"},
	"km":           {Name: "ខ្មែរ", English: "Khmer"},
	"kn":           {Name: "ಕನ್ನಡ", English: "Kannada"},
	"ko":           {Name: "한국어", English: "Korean"},
	"ku":           {Name: "Kurdî", English: "Kurdish"},
	"lt":           {Name: "Lietuvių", English: "Lithuanian"},
	"lv":           {Name: "Latviešu", English: "Latvian"},
	"mai":          {Name: "मैथिली", English: "Maithili"},
	"mk":           {Name: "Македонски", English: "Macedonian"},
	"ml":           {Name: "മലയാളം", English: "Malayalam"},
	"mr":           {Name: "मराठी", English: "Marathi"},
	"ms":           {Name: "Bahasa Melayu", English: "Malay"},
	"nb":           {Name: "Norsk bokmål", English: "Norwegian Bokmål"},
	"nds":          {Name: "Plattdüütsch", English: "Low Saxon"},
	"ne":           {Name: "नेपाली", English: "Nepali"},
	"nl":           {Name: "Nederlands", English: "Dutch"},
	"nn":           {Name: "Norsk nynorsk", English: "Norwegian Nynorsk"},
	"oc":           {Name: "Occitan", English: "Occitan"},
	"or":           {Name: "ଓଡ଼ିଆ", English: "Odia"},
	"pa":           {Name: "ਪੰਜਾਬੀ", English: "Punjabi"},
	"pl":           {Name: "Polski", English: "Polish"},
	"pt":           {Name: "Português", English: "Portuguese"},
	"pt_BR":        {Name: "Português (Brasil)", English: "Portuguese (Brazil)"},
	"ro":           {Name: "Română", English: "Romanian"},
	"ru":           {Name: "Русский", English: "Russian"},
	"se":           {Name: "Davvisámegiella", English: "Northern Sami"},
	"si":           {Name: "සිංහල", English: "Sinhala"},
	"sk":           {Name: "Slovenčina", English: "Slovak"},
	"sl":           {Name: "Slovenščina", English: "Slovenian"},
	"sq":           {Name: "Shqip", English: "Albanian"},
	"sr":           {Name: "Српски", English: "Serbian"},
	"sr@ijekavian": {Name: "Српски (ијекавски)", English: "Serbian (Ijekavian)"},
	"sr@latin":     {Name: "Srpski", English: "Serbian (Latin)"},
	"sv":           {Name: "Svenska", English: "Swedish"},
	"ta":           {Name: "தமிழ்", English: "Tamil"},
	"te":           {Name: "తెలుగు", English: "Telugu"},
	"tg":           {Name: "Тоҷикӣ", English: "Tajik"},
	"th":           {Name: "ไทย", English: "Thai"},
	"tr":           {Name: "Türkçe", English: "Turkish"},
	"ug":           {Name: "ئۇيغۇرچە", English: "Uyghur"},
	"uk":           {Name: "Українська", English: "Ukrainian"},
	"uz":           {Name: "O'zbek", English: "Uzbek"},
	"uz@cyrillic":  {Name: "Ўзбек", English: "Uzbek (Cyrillic)"},
	"vi":           {Name: "Tiếng Việt", English: "Vietnamese"},
	"wa":           {Name: "Walon", English: "Walloon"},
	"x-test":       {Name: "x-test", English: "Test language"},
	"zh_CN":        {Name: "简体中文", English: "Chinese (Simplified)"},
	"zh_TW":        {Name: "繁體中文", English: "Chinese (Traditional)"},
}

// canonicalize rewrites lang in KDE form: "PT-br" becomes "pt_BR" and
// "SR@Latin" becomes "sr@latin".
func canonicalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	base, variant, hasVariant := strings.Cut(lang, "@")
	if strings.HasPrefix(strings.ToLower(base), "x-") {
		base = strings.ToLower(base)
	} else {
		base = strings.ReplaceAll(base, "-", "_")
		parts := strings.Split(base, "_")
		parts[0] = strings.ToLower(parts[0])
		if len(parts) >= 2 {
			parts[1] = strings.ToUpper(parts[1])
		}
		base = strings.Join(parts, "_")
	}
	if hasVariant {
		return base + "@" + strings.ToLower(variant)
	}
	return base
}

// Resolve returns metadata for lang. Unknown variants and regions fall back
// to their base language; unknown codes return the code itself as Name.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	base, _, _ := strings.Cut(normalized, "@")
	if m, ok := Registry[base]; ok {
		return m
	}
	if language, _, ok := strings.Cut(base, "_"); ok {
		if m, ok := Registry[language]; ok {
			return m
		}
	}
	return Meta{Name: lang, English: lang}
}

// Known reports whether lang resolves to a registry entry.
func Known(lang string) bool {
	return Resolve(lang) != Meta{Name: lang, English: lang}
}
