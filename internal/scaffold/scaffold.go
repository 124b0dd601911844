// Package scaffold writes the container build recipe for a serving
// directory: a Dockerfile following the packaging convention (workdir
// /code, dependency manifest installed before sources, server listening on
// the internal port) plus supporting files.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"mlserve/internal/common/fsutil"
	"mlserve/internal/config"
)

// Options controls the generated recipe. Zero values take the defaults
// below.
type Options struct {
	// InternalPort the server binds inside the container. Must match the
	// internal side of the run command's port mapping.
	InternalPort int
	// BaseImage for the build stage.
	BaseImage string
	// ServerPackage is the path of the main package built into the image.
	ServerPackage string
}

const (
	defaultInternalPort  = 8000
	defaultBaseImage     = "golang:1.24"
	defaultServerPackage = "./cmd/server"
)

func (o *Options) fill() {
	if o.InternalPort == 0 {
		o.InternalPort = defaultInternalPort
	}
	if o.BaseImage == "" {
		o.BaseImage = defaultBaseImage
	}
	if o.ServerPackage == "" {
		o.ServerPackage = defaultServerPackage
	}
}

// The dependency manifest is copied and resolved before the rest of the
// sources so layer caching survives model/source edits.
var dockerfileTmpl = template.Must(template.New("dockerfile").Parse(`FROM {{.BaseImage}} AS build

WORKDIR /code

COPY go.mod go.sum ./
RUN go mod download

COPY . .
RUN CGO_ENABLED=0 go build -o /bin/server {{.ServerPackage}}

FROM gcr.io/distroless/static-debian12

WORKDIR /code
COPY --from=build /bin/server /bin/server

EXPOSE {{.InternalPort}}
ENTRYPOINT ["/bin/server"]
`))

const dockerignore = `.git
*.md
Dockerfile
`

// starterRoutes seeds a route table for router deployments; comments are
// fine, the file store reads JSONC.
const starterRoutes = `{
  // model name -> serving instance base URL
  // "sentiment-v2": "http://127.0.0.1:8081"
}
`

// Dockerfile renders the recipe text for the given options.
func Dockerfile(opts Options) (string, error) {
	opts.fill()
	var b strings.Builder
	if err := dockerfileTmpl.Execute(&b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write materializes the recipe into dir: Dockerfile, .dockerignore and a
// starter model_routes.json. Existing files are left alone unless force is
// set; the first conflict aborts before anything is written.
func Write(dir string, opts Options, force bool) error {
	if err := fsutil.EnsureDir(dir); err != nil {
		return err
	}

	df, err := Dockerfile(opts)
	if err != nil {
		return err
	}
	files := map[string]string{
		"Dockerfile":             df,
		".dockerignore":          dockerignore,
		config.DefaultRoutesFile: starterRoutes,
	}

	if !force {
		for name := range files {
			if fsutil.PathExists(filepath.Join(dir, name)) {
				return fmt.Errorf("%s already exists in %s (use --force to overwrite)", name, dir)
			}
		}
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
