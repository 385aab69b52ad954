// Package artifact persists generated files under timestamped names.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Areas used by the generator.
const (
	AreaTestPlan = "testplan"
	AreaUsers    = "users"
)

// ErrNameTaken is returned when a backend already holds an artifact with
// the generated name. Names carry only a four digit random suffix, so this
// can happen when many artifacts are stored within the same minute.
var ErrNameTaken = errors.New("artifact name already taken")

// Handle identifies a stored artifact.
type Handle struct {
	ID        uuid.UUID
	Area      string
	FileType  string
	Name      string
	Location  string
	Size      int64
	CreatedAt time.Time
}

// Store persists artifact payloads.
type Store interface {
	Store(ctx context.Context, area, fileType string, payload []byte) (Handle, error)
}

// Namer builds artifact names of the form area_YYYYMMDDHHMM_NNNN.ext.
type Namer struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// Suffix returns a number in [1000, 9999]; defaults to a random one.
	Suffix func() int
}

// Name returns a new name and the time it was generated at.
func (n Namer) Name(area, fileType string) (string, time.Time) {
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	suffix := randomSuffix
	if n.Suffix != nil {
		suffix = n.Suffix
	}

	t := now()
	return fmt.Sprintf("%s_%s_%d.%s", area, t.Format("200601021504"), suffix(), fileType), t
}

func randomSuffix() int {
	return 1000 + rand.IntN(9000)
}

func newHandle(area, fileType, name, location string, size int, createdAt time.Time) Handle {
	return Handle{
		ID:        uuid.New(),
		Area:      area,
		FileType:  fileType,
		Name:      name,
		Location:  location,
		Size:      int64(size),
		CreatedAt: createdAt,
	}
}
