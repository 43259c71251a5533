package digest

import "fmt"

// Record is the digest of exactly one byte source. Checksums are lowercase
// hex; CRC32 is always eight characters.
type Record struct {
	Size   uint64 `json:"size" mapstructure:"size"`
	CRC32  string `json:"crc32" mapstructure:"crc32"`
	MD5    string `json:"md5" mapstructure:"md5"`
	SHA1   string `json:"sha1" mapstructure:"sha1"`
	SHA256 string `json:"sha256" mapstructure:"sha256"`
}

// Equal reports whether both records describe the same bytes
func (r Record) Equal(o Record) bool {
	return r == o
}

// IsZero reports whether the record was never computed
func (r Record) IsZero() bool {
	return r == Record{}
}

// String renders the record on one line
func (r Record) String() string {
	return fmt.Sprintf("size=%d crc32=%s md5=%s sha1=%s sha256=%s", r.Size, r.CRC32, r.MD5, r.SHA1, r.SHA256)
}
