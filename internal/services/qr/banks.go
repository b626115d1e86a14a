package qr

// bankBINs maps the configured bank code onto the NAPAS member BIN used
// inside the merchant account information template.
var bankBINs = map[string]string{
	"vcb":             "970436",
	"vietinbank":      "970415",
	"mb":              "970422",
	"bidv":            "970418",
	"agribank":        "970405",
	"ocb":             "970448",
	"acb":             "970416",
	"vpbank":          "970432",
	"tpbank":          "970423",
	"hdbank":          "970437",
	"vietcapitalbank": "970454",
	"scb":             "970429",
	"vib":             "970441",
	"shb":             "970443",
	"eximbank":        "970431",
	"msb":             "970426",
	"cake":            "546034",
}

type bankProfile struct {
	guid   string
	nested bool // whether bank info sits in a nested template inside 38.01
}

var bankProfiles = map[string]bankProfile{
	"mb":         {guid: "A000000727", nested: true},
	"vietinbank": {guid: "A000000727", nested: true},
	"bidv":       {guid: "A000000727", nested: true},
	"agribank":   {guid: "A000000727", nested: true},
}

// defaultProfile applies to banks without an explicit profile entry.
var defaultProfile = bankProfile{guid: "A000000727", nested: true}

func profileFor(bankCode string) bankProfile {
	if p, ok := bankProfiles[bankCode]; ok {
		return p
	}
	return defaultProfile
}
