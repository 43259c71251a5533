// Package metadata turns the text emitted by title-inspection tools into one
// canonical description of the titles on a cartridge.
package metadata

import "strings"

// Title is one application on the cartridge. Version and DisplayVersion
// come from the companion update when the cartridge carries one.
type Title struct {
	ID             string `json:"title_id"`
	UpdateID       string `json:"update_id,omitempty"`
	Name           string `json:"name"`
	DisplayVersion string `json:"display_version"`
	Version        string `json:"version"`
}

// Record is the canonical metadata of a cartridge. Per-title values live on
// Title so the correlated sequences always have the same length.
type Record struct {
	Dialect   string   `json:"dialect"`
	Titles    []Title  `json:"titles"`
	Languages []string `json:"languages"`
}

// TitleIDs returns the base title IDs in cartridge order
func (r Record) TitleIDs() []string {
	return r.collect(func(t Title) string { return t.ID })
}

// Names returns the formatted title names
func (r Record) Names() []string {
	return r.collect(func(t Title) string { return t.Name })
}

// DisplayVersions returns the display versions
func (r Record) DisplayVersions() []string {
	return r.collect(func(t Title) string { return t.DisplayVersion })
}

// Versions returns the numeric versions
func (r Record) Versions() []string {
	return r.collect(func(t Title) string { return t.Version })
}

// UpdateIDs returns the IDs of companion updates that were found
func (r Record) UpdateIDs() []string {
	var ids []string
	for _, t := range r.Titles {
		if t.UpdateID != "" {
			ids = append(ids, t.UpdateID)
		}
	}
	return ids
}

func (r Record) collect(field func(Title) string) []string {
	out := make([]string, len(r.Titles))
	for i, t := range r.Titles {
		out[i] = field(t)
	}
	return out
}

// Summary is the record flattened into the single-line values a submission
// form holds.
type Summary struct {
	GameName  string `json:"game_name"`
	Languages string `json:"languages"`
	GameID1   string `json:"game_id1"`
	Version   string `json:"version"`
	Update    string `json:"update"`
	UpdateIDs string `json:"update_ids,omitempty"`
}

// Summary joins multi-title sequences with ", " and languages with ","
func (r Record) Summary() Summary {
	return Summary{
		GameName:  strings.Join(r.Names(), ", "),
		Languages: strings.Join(r.Languages, ","),
		GameID1:   strings.Join(r.TitleIDs(), ", "),
		Version:   strings.Join(r.DisplayVersions(), ", "),
		Update:    strings.Join(r.Versions(), ", "),
		UpdateIDs: strings.Join(r.UpdateIDs(), ", "),
	}
}
