package translator

import (
	"errors"
	"strings"

	"github.com/valpere/transeval/internal"
)

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func isDetection(err error) bool {
	return errors.Is(err, internal.ErrDetection)
}

func errNoDetector(name string) error {
	return internal.NotFoundf("translator %s has no language detector", name)
}
