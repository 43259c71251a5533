package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// titleRecordPattern matches one row of `hactoolnet --listtitles`
var titleRecordPattern = regexp.MustCompile(`(?im)^(?P<title_id>[a-f0-9]{16})\s+(?P<version>v\d+)\s+(?:\d+\.){3}\d+\s+(?P<type>Application|Patch)\s+\d+(?:\.\d+)?\s+[a-z]{2}\s+(?P<display_version>[^\s]+)\s+(?P<name>.+?)\s+(?P<languages>[\w-]+(?:,[\w-]+)*)$`)

const updateTitleBit = 0x800

// titleEntry is one application or patch row
type titleEntry struct {
	ID             string
	Patch          bool
	Version        string
	DisplayVersion string
	Name           string
	Languages      []string
}

// hactoolDialect parses the title listing of hactoolnet, which can describe
// several applications and their updates on one cartridge.
type hactoolDialect struct{}

func (hactoolDialect) Name() string { return "hactool" }

func (hactoolDialect) Match(input string) bool {
	return titleRecordPattern.MatchString(input)
}

func (hactoolDialect) Parse(input string) (Record, error) {
	entries := parseTitleEntries(input)

	var languages []string
	for _, e := range entries {
		languages = append(languages, e.Languages...)
	}

	return Record{
		Titles:    pairTitles(entries),
		Languages: NormalizeLanguages(languages),
	}, nil
}

func parseTitleEntries(input string) []titleEntry {
	idx := func(name string) int { return titleRecordPattern.SubexpIndex(name) }
	idID, idVersion, idType := idx("title_id"), idx("version"), idx("type")
	idDisplay, idName, idLangs := idx("display_version"), idx("name"), idx("languages")

	var entries []titleEntry
	for _, m := range titleRecordPattern.FindAllStringSubmatch(input, -1) {
		entries = append(entries, titleEntry{
			ID:             strings.ToUpper(m[idID]),
			Patch:          strings.EqualFold(m[idType], "Patch"),
			Version:        m[idVersion],
			DisplayVersion: m[idDisplay],
			Name:           m[idName],
			Languages:      strings.Split(m[idLangs], ","),
		})
	}
	return entries
}

// companionUpdateID returns the ID of the update that belongs to a base title
func companionUpdateID(baseID string) (string, error) {
	id, err := strconv.ParseUint(baseID, 16, 64)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016X", id|updateTitleBit), nil
}

// pairTitles maps each base application onto its companion update. A base
// title listed twice keeps its first position and its last values.
func pairTitles(entries []titleEntry) []Title {
	var order []string
	bases := make(map[string]titleEntry)
	updates := make(map[string]titleEntry)

	for _, e := range entries {
		if e.Patch {
			updates[e.ID] = e
			continue
		}
		if _, seen := bases[e.ID]; !seen {
			order = append(order, e.ID)
		}
		bases[e.ID] = e
	}

	titles := make([]Title, 0, len(order))
	for _, id := range order {
		source := bases[id]
		title := Title{ID: id}

		if updateID, err := companionUpdateID(id); err == nil {
			if update, ok := updates[updateID]; ok {
				source = update
				title.UpdateID = updateID
			}
		}

		title.Name = FormatTitle(source.Name)
		title.Version = NormalizeVersion(source.Version)
		title.DisplayVersion = NormalizeDisplayVersion(source.DisplayVersion)
		titles = append(titles, title)
	}
	return titles
}
