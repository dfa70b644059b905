package compiler

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// NormalizeLocation turns a path or URI into an absolute URI. Paths become
// file:// URIs with forward slashes; a drive-letter path such as C:\x\s.json
// becomes file:///C:/x/s.json on every host. An empty trailing fragment is
// dropped.
func NormalizeLocation(loc string) (string, error) {
	loc = strings.TrimSuffix(loc, "#")
	if isDrivePath(loc) {
		return fileURI("/" + strings.ReplaceAll(loc, `\`, "/")), nil
	}
	if u, err := url.Parse(loc); err == nil && len(u.Scheme) > 1 {
		return u.String(), nil
	}
	p := strings.ReplaceAll(loc, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		abs, err := filepath.Abs(filepath.FromSlash(p))
		if err != nil {
			return "", err
		}
		p = filepath.ToSlash(abs)
		if isDrivePath(p) {
			p = "/" + p
		}
	}
	return fileURI(path.Clean(p)), nil
}

// FilePath converts a file:// URI back into a host path.
func FilePath(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	p := u.Path
	if len(p) > 2 && p[0] == '/' && isDrivePath(p[1:]) {
		p = p[1:]
	}
	return filepath.FromSlash(p), true
}

func fileURI(p string) string {
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func isDrivePath(s string) bool {
	if len(s) < 3 || s[1] != ':' || (s[2] != '\\' && s[2] != '/') {
		return false
	}
	c := s[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// splitFragment separates uri into its document part and raw fragment.
func splitFragment(uri string) (string, string) {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i], uri[i+1:]
	}
	return uri, ""
}

// resolveURI resolves ref against base the way a browser would.
func resolveURI(base, ref string) (string, error) {
	if strings.HasPrefix(ref, "#") {
		doc, _ := splitFragment(base)
		return doc + ref, nil
	}
	if isDrivePath(ref) {
		return NormalizeLocation(ref)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if r.IsAbs() {
		return r.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
