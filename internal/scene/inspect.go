// Package scene inspects scene release directories: the primary archive and
// its checksum list, the NFO, and extraction through unrar.
package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

const dateLayout = "2006-01-02"

// Info describes a scene release directory
type Info struct {
	Dir         string `json:"dir"`
	ArchiveName string `json:"archive_name,omitempty"`
	SFVName     string `json:"sfv_name,omitempty"`
	NFOName     string `json:"nfo_name,omitempty"`
	NFOSize     int64  `json:"nfo_size,omitempty"`
	NFOCRC      string `json:"nfo_crc,omitempty"`
	// Date is the release date, taken from the archive modification time
	// and falling back to the NFO's.
	Date string `json:"date,omitempty"`
}

// DirName is the base name of the release directory
func (i *Info) DirName() string {
	return filepath.Base(i.Dir)
}

// ArchiveBase is the archive name without extension. Without an archive the
// NFO base name stands in.
func (i *Info) ArchiveBase() string {
	if i.ArchiveName == "" {
		return i.NFOBase()
	}
	return trimExt(i.ArchiveName)
}

// NFOBase is the NFO name without extension
func (i *Info) NFOBase() string {
	return trimExt(i.NFOName)
}

// NFOSizeString renders the NFO size as the submission expects it
func (i *Info) NFOSizeString() string {
	if i.NFOName == "" {
		return ""
	}
	return strconv.FormatInt(i.NFOSize, 10)
}

func trimExt(name string) string {
	return fsutil.GetFileNameWithoutExt(name)
}

// Inspect collects the release details from dir. The first archive and NFO
// by name are used when a directory holds several.
func Inspect(ctx context.Context, dir string) (*Info, error) {
	archives, err := fsutil.FindFilesByExt(dir, ".rar")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrMissingSceneDirectory, dir)
	}
	nfos, err := fsutil.FindFilesByExt(dir, ".nfo")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrMissingSceneDirectory, dir)
	}

	info := &Info{Dir: dir}
	var archive, nfo *fsutil.DirEntry
	if len(archives) > 0 {
		archive = &archives[0]
	}
	if len(nfos) > 0 {
		nfo = &nfos[0]
	}

	if archive != nil {
		info.ArchiveName = archive.Name
		info.SFVName = trimExt(archive.Name) + ".sfv"
		info.Date = archive.ModTime.UTC().Format(dateLayout)
	}

	if nfo != nil {
		sum, err := digest.SumFile(ctx, nfo.FullPath)
		if err != nil {
			return nil, err
		}
		info.NFOName = nfo.Name
		info.NFOSize = nfo.Size
		info.NFOCRC = sum.CRC32
		if info.Date == "" {
			info.Date = nfo.ModTime.UTC().Format(dateLayout)
		}
	}

	logger.LogDebug("inspected scene directory", map[string]interface{}{
		"dir":     dir,
		"archive": info.ArchiveName,
		"nfo":     info.NFOName,
		"date":    info.Date,
	})
	return info, nil
}

// ReadNFO returns the text of the release NFO
func ReadNFO(info *Info) (string, error) {
	if info == nil || info.NFOName == "" {
		return "", fmt.Errorf("%w: no NFO file in scene directory", errors.ErrMissingArtifact)
	}
	return fsutil.ReadFileString(filepath.Join(info.Dir, info.NFOName))
}

// ParseDate validates a release date override
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: release date %q is not yyyy-mm-dd", errors.ErrInvalidArgument, s)
	}
	return t, nil
}
