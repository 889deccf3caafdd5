package console

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/dmitrijs2005/landmarkbot/internal/server/models"
	_ "golang.org/x/image/webp"
)

// describeRef turns a /photo argument into a media reference. Local files
// are annotated with their size and, for decodable images, dimensions so
// the largest variant can be picked.
func describeRef(ref string) (models.MediaRef, error) {
	m := models.MediaRef{ID: ref}
	if isRemote(ref) {
		return m, nil
	}

	f, err := os.Open(ref)
	if err != nil {
		return m, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return m, fmt.Errorf("stat photo: %w", err)
	}
	if st.IsDir() {
		return m, fmt.Errorf("photo %s is a directory", ref)
	}
	m.Size = st.Size()

	// not an image we can decode: keep the size only
	if cfg, _, err := image.DecodeConfig(f); err == nil {
		m.Width, m.Height = cfg.Width, cfg.Height
	}
	return m, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
