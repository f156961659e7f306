package source

import (
	"mime"
	"path"
	"strings"
)

// ParseContentDisposition returns the filename carried by a
// Content-Disposition header, or "" if there is none. The extended
// filename* parameter wins over filename, as RFC 6266 requires:
//
//	attachment; filename="clip.mp4"
//	attachment; filename*=UTF-8''holiday%20clip.mp4
//
// Directory components are dropped so the result is safe to use as a name.
func ParseContentDisposition(header string) string {
	if header == "" {
		return ""
	}
	// ParseMediaType decodes filename* into filename.
	_, params, err := mime.ParseMediaType(header)
	if err == nil {
		return baseName(params["filename"])
	}
	return baseName(scanFilename(header))
}

// scanFilename handles headers ParseMediaType rejects, such as unquoted
// names with spaces.
func scanFilename(header string) string {
	for _, part := range strings.Split(header, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "filename") {
			continue
		}
		val = strings.TrimSpace(val)
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		if val != "" {
			return val
		}
	}
	return ""
}

func baseName(name string) string {
	if name == "" {
		return ""
	}
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
