package submission

import (
	"encoding/xml"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/xmlutil"
)

// Datafile is the submission document. Game carries exactly one of Source
// and Release.
type Datafile struct {
	XMLName xml.Name `xml:"datafile"`
	Game    Game     `xml:"game"`
}

type Game struct {
	Name    string   `xml:"name,attr"`
	Archive Archive  `xml:"archive"`
	Source  *Source  `xml:"source,omitempty"`
	Release *Release `xml:"release,omitempty"`
}

type Archive struct {
	Clone       string `xml:"clone,attr"`
	Name        string `xml:"name,attr"`
	Region      string `xml:"region,attr"`
	Languages   string `xml:"languages,attr"`
	LangChecked string `xml:"langchecked,attr"`
	GameID1     string `xml:"gameid1,attr"`
	GameID2     string `xml:"gameid2,attr"`
	Categories  string `xml:"categories,attr"`
	Version1    string `xml:"version1,attr,omitempty"`
}

// Source describes a trusted dump
type Source struct {
	Details SourceDetails `xml:"details"`
	Serials Serials       `xml:"serials"`
	Files   []File        `xml:"file"`
}

type SourceDetails struct {
	Section        string `xml:"section,attr"`
	DumpDate       string `xml:"d_date,attr"`
	ReleaseDate    string `xml:"r_date,attr"`
	ReleaseInfo    string `xml:"r_date_info,attr"`
	Region         string `xml:"region,attr"`
	Dumper         string `xml:"dumper,attr"`
	Project        string `xml:"project,attr"`
	Tool           string `xml:"tool,attr"`
	Comment1       string `xml:"comment1,attr"`
	OriginalFormat string `xml:"originalformat,attr"`
}

// Release describes a scene release
type Release struct {
	Details ReleaseDetails `xml:"details"`
	Serials Serials        `xml:"serials"`
	Files   []File         `xml:"file"`
}

type ReleaseDetails struct {
	DirName     string `xml:"dirname,attr"`
	NFOName     string `xml:"nfoname,attr"`
	ArchiveName string `xml:"archivename,attr"`
	Region      string `xml:"region,attr"`
	NFOSize     string `xml:"nfosize,attr"`
	NFOCRC      string `xml:"nfocrc,attr"`
	Date        string `xml:"date,attr"`
	Group       string `xml:"group,attr"`
}

// Serials omits the box fields for a loose cart
type Serials struct {
	MediaSerial1 string  `xml:"media_serial1,attr"`
	MediaSerial2 string  `xml:"media_serial2,attr"`
	Mediastamp   string  `xml:"mediastamp,attr"`
	PCBSerial    string  `xml:"pcb_serial,attr"`
	BoxSerial    *string `xml:"box_serial,attr,omitempty"`
	BoxBarcode   *string `xml:"box_barcode,attr,omitempty"`
}

type File struct {
	ForceName  string  `xml:"forcename,attr"`
	Size       string  `xml:"size,attr"`
	CRC32      string  `xml:"crc32,attr"`
	MD5        string  `xml:"md5,attr"`
	SHA1       string  `xml:"sha1,attr"`
	SHA256     string  `xml:"sha256,attr"`
	Extension  string  `xml:"extension,attr"`
	Item       string  `xml:"item,attr,omitempty"`
	Version    *string `xml:"version,attr,omitempty"`
	UpdateType *string `xml:"update_type,attr,omitempty"`
	Format     string  `xml:"format,attr"`
	Filter     string  `xml:"filter,attr,omitempty"`
}

// Marshal renders the document with four-space indentation
func Marshal(df *Datafile) ([]byte, error) {
	return xmlutil.MarshalXML(df, xmlutil.DefaultIndent)
}
