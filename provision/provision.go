// Package provision fetches JDBC driver jars for node databases from a Maven repository.
package provision

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultRepository is Maven Central.
const DefaultRepository = "https://repo1.maven.org/maven2"

// DefaultJarPath is where Download writes when no path is given.
const DefaultJarPath = "./db_driver.jar"

// Kind identifies a database whose driver can be fetched.
type Kind string

const (
	H2       Kind = "h2"
	Postgres Kind = "pg"
)

var ErrUnknownKind = errors.New("provision: unknown driver kind")

type artifact struct {
	path   string // group and artifact path below the repository root
	prefix string // jar file name prefix
}

var artifacts = map[Kind]artifact{
	H2:       {path: "com/h2database/h2/", prefix: "h2-"},
	Postgres: {path: "org/postgresql/postgresql/", prefix: "postgresql-"},
}

// Provisioner resolves and downloads a driver jar.
type Provisioner struct {
	repo   string
	base   string // repo joined with the artifact directory, trailing slash
	prefix string
	client *http.Client
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRepository overrides DefaultRepository.
func WithRepository(repo string) Option {
	return func(p *Provisioner) { p.repo = strings.TrimRight(repo, "/") }
}

// WithHTTPClient overrides http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provisioner) { p.client = c }
}

// New returns a Provisioner for kind. An empty kind means H2.
func New(kind Kind, opts ...Option) (*Provisioner, error) {
	if kind == "" {
		kind = H2
	}
	a, ok := artifacts[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	p := &Provisioner{repo: DefaultRepository, prefix: a.prefix, client: http.DefaultClient}
	for _, o := range opts {
		o(p)
	}
	p.base = p.repo + "/" + a.path
	return p, nil
}

// MetadataURL returns the location of maven-metadata.xml.
func (p *Provisioner) MetadataURL() string {
	return p.base + "maven-metadata.xml"
}

// JarURL returns the jar location for version.
func (p *Provisioner) JarURL(version string) string {
	return p.base + version + "/" + p.prefix + version + ".jar"
}

type metadata struct {
	Versioning struct {
		Latest string `xml:"latest"`
	} `xml:"versioning"`
}

// LatestVersion reads <versioning><latest> from the repository metadata.
func (p *Provisioner) LatestVersion(ctx context.Context) (string, error) {
	body, err := p.get(ctx, p.MetadataURL())
	if err != nil {
		return "", err
	}
	defer func() {
		_ = body.Close()
	}()
	var m metadata
	if err := xml.NewDecoder(body).Decode(&m); err != nil {
		return "", fmt.Errorf("provision: failed to parse metadata: %w", err)
	}
	latest := strings.TrimSpace(m.Versioning.Latest)
	if latest == "" {
		return "", errors.New("provision: metadata has no latest version")
	}
	return latest, nil
}

// Download writes the jar for version to path and returns the version fetched. An empty
// version means the latest one; an empty path means DefaultJarPath.
func (p *Provisioner) Download(ctx context.Context, path, version string) (string, error) {
	if path == "" {
		path = DefaultJarPath
	}
	if version == "" {
		v, err := p.LatestVersion(ctx)
		if err != nil {
			return "", err
		}
		version = v
	}
	body, err := p.get(ctx, p.JarURL(version))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = body.Close()
	}()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("provision: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("provision: failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("provision: failed to close %s: %w", path, err)
	}
	return version, nil
}

func (p *Provisioner) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("provision: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provision: GET %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("provision: GET %s: %s", u, resp.Status)
	}
	return resp.Body, nil
}
