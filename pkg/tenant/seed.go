package tenant

import (
	"errors"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

type seedFile struct {
	Organizations []Organization `yaml:"organizations"`
}

// ReadSeed decodes organizations for the memory store:
//
//	organizations:
//	  - subdomain: acme
//	    name: Acme建設
//	    active: true
//
// Missing IDs are generated. Subdomains are lower-cased and must match the
// same format the organizations table enforces. Names are NFC-normalized so
// decomposed kana (e.g. pasted from macOS) render like the database values.
func ReadSeed(r io.Reader) ([]Organization, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidSeed, err)
	}

	seen := make(map[string]struct{}, len(f.Organizations))
	for i := range f.Organizations {
		o := &f.Organizations[i]
		o.Subdomain = strings.ToLower(strings.TrimSpace(o.Subdomain))
		if !subdomainPattern.MatchString(o.Subdomain) {
			return nil, errors.Join(ErrInvalidSeed, errors.New("bad subdomain "+strconv.Quote(o.Subdomain)))
		}
		if _, dup := seen[o.Subdomain]; dup {
			return nil, errors.Join(ErrInvalidSeed, errors.New("duplicate subdomain "+strconv.Quote(o.Subdomain)))
		}
		seen[o.Subdomain] = struct{}{}
		o.Name = norm.NFC.String(strings.TrimSpace(o.Name))
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
	}
	return f.Organizations, nil
}

// LoadSeedFile reads a seed file from disk. See ReadSeed.
func LoadSeedFile(path string) ([]Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidSeed, err)
	}
	defer f.Close()
	return ReadSeed(f)
}
