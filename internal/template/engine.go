package template

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strings"
)

//go:embed views
var embedded embed.FS

// Engine wraps Go's html/template with the built-in pagination views, custom
// functions, and user view overlaying.
type Engine struct {
	templates *template.Template
	funcMap   template.FuncMap
}

// NewEngine creates a template Engine from the built-in views and optionally
// overlays .html files from userViewDir on top. User views with the same
// relative path override built-in views. A missing userViewDir is ignored.
func NewEngine(userViewDir string) (*Engine, error) {
	builtin, err := fs.Sub(embedded, "views")
	if err != nil {
		return nil, fmt.Errorf("opening built-in views: %w", err)
	}

	files, err := collectTemplateFiles(builtin)
	if err != nil {
		return nil, fmt.Errorf("loading built-in views: %w", err)
	}

	if userViewDir != "" {
		info, err := os.Stat(userViewDir)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("loading user views from %s: %w", userViewDir, err)
		case !info.IsDir():
			return nil, fmt.Errorf("loading user views: %s is not a directory", userViewDir)
		default:
			userFiles, err := collectTemplateFiles(os.DirFS(userViewDir))
			if err != nil {
				return nil, fmt.Errorf("loading user views from %s: %w", userViewDir, err)
			}
			// User files override built-in files with the same name.
			maps.Copy(files, userFiles)
		}
	}

	e := &Engine{funcMap: FuncMap()}
	// partial resolves against e.templates at execution time, so it can be
	// bound before parsing.
	e.funcMap["partial"] = func(name string, ctx any) (template.HTML, error) {
		return e.executePartial(name, ctx)
	}

	root := template.New("").Funcs(e.funcMap)
	for _, name := range slices.Sorted(maps.Keys(files)) {
		src := files[name]
		content, err := fs.ReadFile(src, name)
		if err != nil {
			return nil, fmt.Errorf("reading view %s: %w", name, err)
		}
		if _, err := root.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parsing view %s: %w", name, err)
		}
	}
	e.templates = root

	return e, nil
}

// executePartial executes a partial template and returns the rendered HTML.
func (e *Engine) executePartial(name string, ctx any) (template.HTML, error) {
	// Try with and without the "partials/" prefix.
	tmplName := viewName(name)
	if !strings.HasPrefix(tmplName, "partials/") {
		tmplName = "partials/" + tmplName
	}

	t := e.templates.Lookup(tmplName)
	if t == nil {
		t = e.templates.Lookup(viewName(name))
	}
	if t == nil {
		return "", fmt.Errorf("partial template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("executing partial %q: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// collectTemplateFiles walks fsys and returns a map of template name
// (slash-separated relative path) to the filesystem holding it, for all
// .html files.
func collectTemplateFiles(fsys fs.FS) (map[string]fs.FS, error) {
	files := make(map[string]fs.FS)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		files[p] = fsys
		return nil
	})
	return files, err
}

// viewName maps a view name such as "pagination/basic" to its template name.
func viewName(name string) string {
	name = strings.TrimPrefix(name, "/")
	if path.Ext(name) != ".html" {
		name += ".html"
	}
	return name
}

// Render executes the named view with data and returns the output. The
// ".html" extension may be omitted.
func (e *Engine) Render(view string, data any) (string, error) {
	name := viewName(view)
	t := e.templates.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("view %q not found", view)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing view %q: %w", view, err)
	}
	return buf.String(), nil
}

// Execute renders the named page template with ctx and returns the output
// bytes.
func (e *Engine) Execute(view string, ctx *PageContext) ([]byte, error) {
	out, err := e.Render(view, ctx)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// HasTemplate reports whether a view with the given name exists.
func (e *Engine) HasTemplate(name string) bool {
	return e.templates.Lookup(viewName(name)) != nil
}

// Names returns the sorted names of all loaded views.
func (e *Engine) Names() []string {
	var names []string
	for _, t := range e.templates.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	slices.Sort(names)
	return names
}
