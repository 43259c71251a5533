package submission

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/cardid"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/metadata"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/xci"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// verbatimFields lose leading zeros or hex digits when YAML reads them as
// numbers, so they must be quoted in form files
var verbatimFields = []string{
	"game_id1",
	"media_serial1",
	"media_serial2",
	"pcb_serial",
	"box_serial",
	"box_barcode",
}

var titleIDPattern = regexp.MustCompile(`^[0-9A-Fa-f]{16}$`)

// Files holds the digests of the submitted files
type Files struct {
	Default     digest.Record `mapstructure:"default" json:"default"`
	InitialArea digest.Record `mapstructure:"initial_area" json:"initial_area"`
	Full        digest.Record `mapstructure:"full" json:"full"`
}

// Form is everything a contributor supplies for one submission
type Form struct {
	GameName  string `mapstructure:"game_name" json:"game_name"`
	Languages string `mapstructure:"languages" json:"languages"`
	GameID1   string `mapstructure:"game_id1" json:"game_id1"`

	// Region is an option label or a plain region; CustomRegion wins when set
	Region       string `mapstructure:"region" json:"region"`
	CustomRegion string `mapstructure:"custom_region" json:"custom_region"`

	Scene bool `mapstructure:"scene" json:"scene"`

	Dumper   string `mapstructure:"dumper" json:"dumper"`
	Tool     string `mapstructure:"tool" json:"tool"`
	Comment  string `mapstructure:"comment" json:"comment"`
	DumpDate string `mapstructure:"dump_date" json:"dump_date"`

	MediaSerial1 string `mapstructure:"media_serial1" json:"media_serial1"`
	MediaSerial2 string `mapstructure:"media_serial2" json:"media_serial2"`
	PCBSerial    string `mapstructure:"pcb_serial" json:"pcb_serial"`
	BoxSerial    string `mapstructure:"box_serial" json:"box_serial"`
	BoxBarcode   string `mapstructure:"box_barcode" json:"box_barcode"`
	LooseCart    bool   `mapstructure:"loose_cart" json:"loose_cart"`

	IncludeInitialArea bool   `mapstructure:"include_initial_area" json:"include_initial_area"`
	Version            string `mapstructure:"version" json:"version"`
	Update             string `mapstructure:"update" json:"update"`
	Files              Files  `mapstructure:"files" json:"files"`

	SceneGroup       string `mapstructure:"scene_group" json:"scene_group"`
	CustomSceneGroup string `mapstructure:"custom_scene_group" json:"custom_scene_group"`
	SceneDate        string `mapstructure:"scene_date" json:"scene_date"`
}

// NewForm returns an empty form with the Initial Area included
func NewForm() Form {
	return Form{IncludeInitialArea: true}
}

// LoadForm reads a form from a YAML, JSON or TOML file
func LoadForm(path string) (Form, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("include_initial_area", true)

	if err := v.ReadInConfig(); err != nil {
		return Form{}, fmt.Errorf("%w: %s: %v", errors.ErrConfigParseError, path, err)
	}

	for _, key := range verbatimFields {
		switch raw := v.Get(key).(type) {
		case nil, string:
		default:
			return Form{}, fmt.Errorf("%w: %s: %s must be quoted, got %v", errors.ErrConfigInvalid, path, key, raw)
		}
	}

	form := NewForm()
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dateStringHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&form, hooks); err != nil {
		return Form{}, fmt.Errorf("%w: %s: %v", errors.ErrConfigInvalid, path, err)
	}

	if err := validateTitleIDs(form.GameID1); err != nil {
		return Form{}, fmt.Errorf("%w: %s: %v", errors.ErrConfigInvalid, path, err)
	}

	logger.LogDebug("loaded submission form", map[string]interface{}{
		"path":  path,
		"scene": form.Scene,
	})
	return form, nil
}

// dateStringHook renders unquoted YAML dates as yyyy-MM-dd
func dateStringHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		return t.Format(time.DateOnly), nil
	}
	return data, nil
}

// validateTitleIDs accepts an empty value or comma separated 16 digit hex IDs
func validateTitleIDs(ids string) error {
	if strings.TrimSpace(ids) == "" {
		return nil
	}
	for _, id := range strings.Split(ids, ",") {
		if !titleIDPattern.MatchString(strings.TrimSpace(id)) {
			return fmt.Errorf("game_id1 %q is not a 16 digit hex title ID", strings.TrimSpace(id))
		}
	}
	return nil
}

// ResolvedRegion is the region recorded in the document
func (f *Form) ResolvedRegion() string {
	if c := strings.TrimSpace(f.CustomRegion); c != "" {
		return c
	}
	return RegionValue(f.Region)
}

// ResolvedSceneGroup is the custom group when set, otherwise the listed group
func (f *Form) ResolvedSceneGroup() (string, error) {
	if c := strings.TrimSpace(f.CustomSceneGroup); c != "" {
		return c, nil
	}
	if strings.TrimSpace(f.SceneGroup) == "" {
		return "", fmt.Errorf("%w: no scene group given", errors.ErrUnknownSceneGroup)
	}
	group, ok := KnownSceneGroup(f.SceneGroup)
	if !ok {
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownSceneGroup, f.SceneGroup)
	}
	return group, nil
}

// ApplyMetadata fills blank title fields from an imported record
func (f *Form) ApplyMetadata(rec metadata.Record) {
	s := rec.Summary()
	fillBlank(&f.GameName, s.GameName)
	fillBlank(&f.Languages, s.Languages)
	fillBlank(&f.GameID1, s.GameID1)
	fillBlank(&f.Version, s.Version)
	fillBlank(&f.Update, s.Update)
}

// ApplyCardID replaces the comment with the Card ID block
func (f *Form) ApplyCardID(set *cardid.Set) {
	f.Comment = set.Comment()
}

// ApplyDigests records the digests of a dump. Initial Area and FullXCI
// records are only taken when the set carries them.
func (f *Form) ApplyDigests(set *xci.DigestSet) {
	f.Files.Default = set.Default
	if set.InitialArea != nil {
		f.Files.InitialArea = *set.InitialArea
	}
	if set.Full != nil {
		f.Files.Full = *set.Full
	}
}

func fillBlank(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = value
	}
}
