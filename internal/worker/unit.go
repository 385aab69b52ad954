package worker

import (
	"strconv"

	"github.com/wesleyorama2/perfdata/internal/sizes"
)

// WorkUnit is one course to create.
type WorkUnit struct {
	Shortname  string
	CourseSize sizes.Tier

	Quiet         bool
	FileSizeLimit int
	FixedDataset  bool
	BypassCheck   bool
}

// Args returns the worker command line flags for u.
func (u WorkUnit) Args(labels sizes.Labels) []string {
	args := []string{
		"--shortname=" + u.Shortname,
		"--size=" + labels.ShortSize(u.CourseSize),
	}
	if u.Quiet {
		args = append(args, "--quiet")
	}
	if u.FileSizeLimit > 0 {
		args = append(args, "--filesizelimit="+strconv.Itoa(u.FileSizeLimit))
	}
	if u.FixedDataset {
		args = append(args, "--fixeddataset")
	}
	if u.BypassCheck {
		args = append(args, "--bypasscheck")
	}
	return args
}
