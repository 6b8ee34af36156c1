package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	siteFile      = "site.yaml"
	servicesFile  = "services.yaml"
	locationsFile = "locations.yaml"
)

// Catalog is the static content backing every page: the business details,
// the service list and the service cities. A Catalog is immutable once built.
type Catalog struct {
	site      types.SiteConfig
	services  []types.Service
	locations []types.LocationData
}

// NewCatalog builds a catalog from already decoded records.
func NewCatalog(site types.SiteConfig, services []types.Service, locations []types.LocationData) (*Catalog, error) {
	c := &Catalog{
		site:      site,
		services:  services,
		locations: locations,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded content: %w", err)
	}
	return Load(sub)
}

// Load reads site.yaml, services.yaml and locations.yaml from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var site types.SiteConfig
	if err := decodeFile(fsys, siteFile, &site); err != nil {
		return nil, err
	}

	var services []types.Service
	if err := decodeFile(fsys, servicesFile, &services); err != nil {
		return nil, err
	}

	var locations []types.LocationData
	if err := decodeFile(fsys, locationsFile, &locations); err != nil {
		return nil, err
	}

	return NewCatalog(site, services, locations)
}

func decodeFile(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// Validate checks the invariants pages rely on.
func (c *Catalog) Validate() error {
	var errs []error

	if strings.TrimSpace(c.site.Name) == "" {
		errs = append(errs, errors.New("site: name is required"))
	}
	if strings.TrimSpace(c.site.Phone) == "" {
		errs = append(errs, errors.New("site: phone is required"))
	}
	if !strings.HasPrefix(c.site.BaseURL, "http://") && !strings.HasPrefix(c.site.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("site: base URL %q must be absolute", c.site.BaseURL))
	}

	seenServices := make(map[string]bool, len(c.services))
	for i, s := range c.services {
		switch {
		case s.Slug == "":
			errs = append(errs, fmt.Errorf("services[%d]: slug is required", i))
		case seenServices[s.Slug]:
			errs = append(errs, fmt.Errorf("services[%d]: duplicate slug %q", i, s.Slug))
		}
		seenServices[s.Slug] = true
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("services[%d]: title is required", i))
		}
	}

	seenLocations := make(map[string]bool, len(c.locations))
	for i, l := range c.locations {
		switch {
		case l.Slug == "":
			errs = append(errs, fmt.Errorf("locations[%d]: slug is required", i))
		case !validSlug(l.Slug):
			errs = append(errs, fmt.Errorf("locations[%d]: slug %q is not URL safe", i, l.Slug))
		case seenLocations[l.Slug]:
			errs = append(errs, fmt.Errorf("locations[%d]: duplicate slug %q", i, l.Slug))
		}
		seenLocations[l.Slug] = true
		if l.City == "" || l.State == "" {
			errs = append(errs, fmt.Errorf("locations[%d]: city and state are required", i))
		}
		if l.Spotlight != nil && l.Spotlight.Heading == "" {
			errs = append(errs, fmt.Errorf("locations[%d]: spotlight heading is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid content catalog: %w", errors.Join(errs...))
	}
	return nil
}

func validSlug(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
			return false
		}
	}
	return !strings.HasPrefix(s, "-") && !strings.HasSuffix(s, "-")
}

// Site returns the business details.
func (c *Catalog) Site() types.SiteConfig {
	return c.site
}

// Locations returns the service cities in catalog order.
func (c *Catalog) Locations() []types.LocationData {
	out := make([]types.LocationData, len(c.locations))
	copy(out, c.locations)
	return out
}

// Services returns the services in catalog order.
func (c *Catalog) Services() []types.Service {
	out := make([]types.Service, len(c.services))
	copy(out, c.services)
	return out
}

// FindLocation scans the location list for slug.
func (c *Catalog) FindLocation(slug string) (types.LocationData, bool) {
	for _, l := range c.locations {
		if l.Slug == slug {
			return l, true
		}
	}
	return types.LocationData{}, false
}

// FindService scans the service list for slug.
func (c *Catalog) FindService(slug string) (types.Service, bool) {
	for _, s := range c.services {
		if s.Slug == slug {
			return s, true
		}
	}
	return types.Service{}, false
}
