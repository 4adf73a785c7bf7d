package classify

// Curated vocabularies for the built-in domains. Catalog text at Nordic
// auction houses mixes Swedish and English, so both appear. Matching is
// case-insensitive substring; multi-word entries are matched as written.

var jewelryKeywords = []string{
	"smycke", "ring", "halsband", "armband", "brosch", "berlock",
	"örhänge", "collier", "hänge", "manschettknapp",
	"jewellery", "jewelry", "necklace", "bracelet", "brooch",
	"pendant", "earring", "cufflink",
}

// watchMovementVocab disqualifies an item from the jewelry domain even
// when a jewelry keyword matches: movement vocabulary means wristwear
// with a mechanism, and watches take precedence.
var watchMovementVocab = []string{
	"automatic", "automatisk", "automatik",
	"quartz", "kvarts",
	"chronometer", "kronometer",
	"chronograph", "kronograf",
	"caliber", "kaliber", "urverk",
}

// watchObjectVocab extends the jewelry exclusion with watch object
// nouns: "armbandsur" and "armbandsklocka" contain the jewelry keyword
// "armband", so without these every wristwatch would classify as
// jewelry.
var watchObjectVocab = []string{
	"armbandsur", "armbandsklocka", "fickur", "wristwatch", "klocka",
}

var jewelryExcludes = append(append([]string{}, watchMovementVocab...), watchObjectVocab...)

var watchKeywords = []string{
	"armbandsur", "fickur", "klocka", "wristwatch", "watch",
	"kronograf", "chronograph", "urverk",
}

// watchDetectVocab is the watch domain's full detection set: object
// nouns plus movement vocabulary, so "kaliber 321" claims the watch
// domain even when no watch noun appears.
var watchDetectVocab = append(append([]string{}, watchKeywords...), watchMovementVocab...)

var audioKeywords = []string{
	"förstärkare", "amplifier", "högtalare", "speaker", "skivspelare",
	"turntable", "grammofon", "receiver", "bandspelare", "rullbandspelare",
	"tuner", "stereo", "hifi", "hi-fi",
}

var instrumentKeywords = []string{
	"fiol", "violin", "gitarr", "guitar", "piano", "flygel",
	"cello", "trumpet", "saxofon", "saxophone", "klarinett", "clarinet",
	"dragspel", "accordion", "mandolin", "banjo",
}

var coinKeywords = []string{
	"mynt", "coin", "silvermynt", "guldmynt", "kopparmynt",
	"sedel", "banknote", "medalj", "medal",
}

var stampKeywords = []string{
	"frimärke", "frimärken", "stamp", "stamps", "brevmärke",
	"förstadagsbrev", "posthistoria", "helsak",
}

var watchBrands = []string{
	"omega", "rolex", "longines", "certina", "tissot", "seiko",
	"iwc", "jaeger-lecoultre", "breitling", "tag heuer", "zenith",
	"patek philippe", "eterna", "halda", "lemania",
}

var jewelryMakers = []string{
	"georg jensen", "wiwen nilsson", "atelier borgila", "efva attling",
	"ole lynggaard", "david-andersen", "kalevala", "lapponia",
	"cartier", "tiffany",
}

var audioBrands = []string{
	"marantz", "mcintosh", "luxman", "tandberg", "bang & olufsen",
	"quad", "thorens", "linn", "nad", "pioneer", "sansui",
	"technics", "revox", "sonab", "radiola",
}

var instrumentBrands = []string{
	"fender", "gibson", "martin", "selmer", "hagström", "levin",
	"steinway", "bechstein", "bösendorfer", "hohner", "yamaha",
}

// sharedMaterials covers metals and body materials across all domains.
// Karat and fineness marks count as material evidence.
var sharedMaterials = []string{
	"guld", "gold", "silver", "sterling", "platina", "platinum",
	"stål", "steel", "titan", "titanium", "brons", "bronze",
	"mässing", "brass", "tenn", "pewter", "koppar", "copper",
	"18k", "14k", "23k", "925", "830",
}

var gemstones = []string{
	"diamant", "diamond", "briljant", "rubin", "ruby", "safir",
	"sapphire", "smaragd", "emerald", "pärla", "pearl",
	"ametist", "amethyst", "akvamarin", "aquamarine", "topas",
	"opal", "granat", "garnet", "turmalin", "citrin", "onyx",
}

var denominations = []string{
	"riksdaler", "skilling", "öre", "daler", "dukat", "mark",
	"krona", "kronor", "gulden", "thaler", "franc", "dollar", "cent",
}

var countries = []string{
	"sverige", "sweden", "norge", "norway", "danmark", "denmark",
	"finland", "island", "tyskland", "germany", "england",
	"frankrike", "france", "usa", "ryssland", "russia",
}

// coreObjectNouns are the primary object-type words that anchor a query's
// search identity. Together with the brand lists they form the core
// vocabulary that selection edits cannot silently remove.
var coreObjectNouns = []string{
	"armbandsur", "fickur", "klocka", "ring", "halsband", "armband",
	"brosch", "collier", "örhänge", "mynt", "sedel", "medalj",
	"frimärke", "förstärkare", "högtalare", "skivspelare", "fiol",
	"gitarr", "piano", "flygel", "tavla", "skulptur", "vas", "matta",
	"watch", "coin", "stamp", "necklace", "bracelet", "amplifier",
	"turntable", "violin", "guitar",
}

// CoreVocabulary returns a membership test over the curated core set:
// major brand and maker names plus primary object-type nouns. The query
// state uses it to decide which seeded terms are protected.
func CoreVocabulary() func(string) bool {
	set := make(map[string]struct{})
	add := func(words []string) {
		for _, w := range words {
			set[w] = struct{}{}
		}
	}
	add(coreObjectNouns)
	add(watchBrands)
	add(jewelryMakers)
	add(audioBrands)
	add(instrumentBrands)

	return func(token string) bool {
		_, ok := set[normalizeToken(token)]
		return ok
	}
}
