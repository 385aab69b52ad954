// Package render produces the generated artifacts: the JMeter test plan and
// the users CSV file consumed by it.
package render

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/wesleyorama2/perfdata/internal/sizes"
)

// Placeholder tokens recognised in a test plan template.
const (
	VersionPlaceholder           = "{{MOODLEVERSION_PLACEHOLDER}}"
	UsersPlaceholder             = "{{USERS_PLACEHOLDER}}"
	LoopsPlaceholder             = "{{LOOPS_PLACEHOLDER}}"
	RampUpPlaceholder            = "{{RAMPUP_PLACEHOLDER}}"
	HostPlaceholder              = "{{HOST_PLACEHOLDER}}"
	SitePathPlaceholder          = "{{SITEPATH_PLACEHOLDER}}"
	SizePlaceholder              = "{{SIZE_PLACEHOLDER}}"
	CourseIDPlaceholder          = "{{COURSEID_PLACEHOLDER}}"
	PageActivityIDPlaceholder    = "{{PAGEACTIVITYID_PLACEHOLDER}}"
	ForumActivityIDPlaceholder   = "{{FORUMACTIVITYID_PLACEHOLDER}}"
	ForumDiscussionIDPlaceholder = "{{FORUMDISCUSSIONID_PLACEHOLDER}}"
	ForumReplyIDPlaceholder      = "{{FORUMREPLYID_PLACEHOLDER}}"
)

// Placeholders lists every token in substitution order.
var Placeholders = []string{
	VersionPlaceholder,
	UsersPlaceholder,
	LoopsPlaceholder,
	RampUpPlaceholder,
	HostPlaceholder,
	SitePathPlaceholder,
	SizePlaceholder,
	CourseIDPlaceholder,
	PageActivityIDPlaceholder,
	ForumActivityIDPlaceholder,
	ForumDiscussionIDPlaceholder,
	ForumReplyIDPlaceholder,
}

// TestPlanParams describes one test plan request.
type TestPlanParams struct {
	CourseID          int64
	Tier              sizes.Tier
	PageActivityID    int64
	ForumActivityID   int64
	ForumDiscussionID int64
	ForumReplyID      int64
}

// SiteInfo describes the site under test.
type SiteInfo struct {
	Version string
	Host    string
	Path    string
}

// SiteInfoFromURL splits a site root URL into host and base path.
func SiteInfoFromURL(version, wwwroot string) (SiteInfo, error) {
	u, err := url.Parse(wwwroot)
	if err != nil {
		return SiteInfo{}, err
	}
	return SiteInfo{Version: version, Host: u.Hostname(), Path: u.Path}, nil
}

// TestPlan substitutes every placeholder in template in a single pass, so a
// replacement value is never itself treated as a placeholder.
func TestPlan(template string, params TestPlanParams, scale sizes.Scale, site SiteInfo, sizeLabel string) []byte {
	values := []string{
		site.Version,
		strconv.Itoa(scale.Users),
		strconv.Itoa(scale.Loops),
		strconv.Itoa(scale.RampUp),
		site.Host,
		site.Path,
		sizeLabel,
		formatID(params.CourseID),
		formatID(params.PageActivityID),
		formatID(params.ForumActivityID),
		formatID(params.ForumDiscussionID),
		formatID(params.ForumReplyID),
	}

	pairs := make([]string, 0, 2*len(Placeholders))
	for i, token := range Placeholders {
		pairs = append(pairs, token, values[i])
	}

	return []byte(strings.NewReplacer(pairs...).Replace(template))
}

// MissingPlaceholders returns the tokens that do not appear in template.
func MissingPlaceholders(template string) []string {
	var missing []string
	for _, token := range Placeholders {
		if !strings.Contains(template, token) {
			missing = append(missing, token)
		}
	}
	return missing
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
