package submission

import "strings"

// RegionOption pairs a cartridge region label with the region it records
type RegionOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Regions lists the cartridge regions in presentation order
var Regions = []RegionOption{
	{Label: "Nintendo published cart (World)", Value: "World"},
	{Label: "-USA cart (USA)", Value: "USA"},
	{Label: "-EUR cart (Europe)", Value: "Europe"},
	{Label: "-JPN cart (Japan)", Value: "Japan"},
	{Label: "-ASI cart (Asia)", Value: "Asia"},
	{Label: "-AUS cart (Australia)", Value: "Australia"},
	{Label: "-CHN cart (China)", Value: "China"},
	{Label: "-CHT cart (Taiwan, Hong Kong)", Value: "Taiwan, Hong Kong"},
	{Label: "-KOR cart (Korea)", Value: "Korea"},
	{Label: "-MSE cart (Middle East)", Value: "Middle East"},
	{Label: "-RUS cart (Russia)", Value: "Russia"},
	{Label: "-UKV cart (United Kingdom)", Value: "United Kingdom"},
}

// Tools lists the known dump tools
var Tools = []string{
	"nxdt_rw_poc v2.0.0 (rewrite-dirty)",
	"DBI",
	"nxdumptool v1.1.15",
	"MigDumpTool (nxdumptool-rewrite)",
}

// SceneGroups lists the release groups that can be named without an override
var SceneGroups = []string{
	"2K", "AUGETY", "BANDAI", "BigBlueBox", "BLASTCiTY", "Console", "DarKmooN", "DELiGHT",
	"GANT", "High-Road", "HR", "iNCiDENT", "JRP", "Lakitu", "Lightforce", "Lube", "LUMA", "NiiNTENDO",
	"NrZ", "NXFLY", "PEACH", "Pussycat", "Suxxors", "Venom", "WiiERD",
}

// RegionValue maps an option label onto its region. A value that is not a
// label is returned as given.
func RegionValue(s string) string {
	s = strings.TrimSpace(s)
	for _, opt := range Regions {
		if opt.Label == s {
			return opt.Value
		}
	}
	return s
}

// KnownSceneGroup returns the listed spelling of group
func KnownSceneGroup(group string) (string, bool) {
	group = strings.TrimSpace(group)
	for _, g := range SceneGroups {
		if strings.EqualFold(g, group) {
			return g, true
		}
	}
	return "", false
}
