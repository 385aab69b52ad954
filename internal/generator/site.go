package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/perfdata/internal/lms"
)

// PerformanceSettings are the admin settings enabled on a performance site.
var PerformanceSettings = []string{
	"debugdisplay", "enablenotes", "enableblogs", "enablebadges", "enableoutcomes",
	"enableportfolios", "enablerssfeeds", "enablecompletion", "enablecourserequests",
	"enableavailability", "enableplagiarism", "enablegroupmembersonly", "enablegravatar",
	"enablesafebrowserintegration", "usecomments", "dndallowtextandlinks", "gradepublishing",
}

// DefaultAdminProfile is written to the admin account.
var DefaultAdminProfile = lms.AdminProfile{
	Email:     "moodle@moodlemoodle.com",
	FirstName: "Admin",
	LastName:  "User",
	City:      "Perth",
	Country:   "AU",
}

// SiteConfigurer prepares a site for performance runs.
type SiteConfigurer struct {
	Settings lms.SiteSettings
	// Frontpage is optional; without it the front page is left as is.
	Frontpage lms.FrontpageWriter
	Logger    zerolog.Logger
}

// Configure enables the performance settings, normalises the admin
// profile, disables email delivery and sets the front page course lists.
func (c *SiteConfigurer) Configure(ctx context.Context) error {
	for _, name := range PerformanceSettings {
		if err := c.Settings.SetConfig(ctx, name, "1"); err != nil {
			return err
		}
	}

	err := c.Settings.UpdateAdminProfile(ctx, "admin", DefaultAdminProfile)
	switch {
	case errors.Is(err, lms.ErrNotFound):
		c.Logger.Info().Msg("no admin user, skipping profile update")
	case err != nil:
		return err
	}

	if err := c.Settings.SetMessageProcessorEnabled(ctx, "email", false); err != nil {
		return err
	}

	if c.Frontpage == nil {
		c.Logger.Info().Msg("Skipping frontpage configuration: frontpage settings not available.")
	} else {
		if err := c.Frontpage.WriteFrontpage(ctx, false, []int{lms.FrontpageAllCourseList}); err != nil {
			return fmt.Errorf("write frontpage: %w", err)
		}
		if err := c.Frontpage.WriteFrontpage(ctx, true, []int{lms.FrontpageEnrolledCourseList}); err != nil {
			return fmt.Errorf("write frontpage: %w", err)
		}
	}

	c.Logger.Info().Msg("site configuration finished successfully")
	return nil
}
