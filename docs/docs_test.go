package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	routerRe = regexp.MustCompile(`^// @Router\s+(\S+)\s+\[(\w+)\]`)
	tagsRe   = regexp.MustCompile(`^// @Tags\s+(\S+)`)
)

type operation struct {
	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`
}

// annotatedRoutes maps "method path" to the tag declared next to @Router.
func annotatedRoutes(t *testing.T) map[string]string {
	t.Helper()
	files, err := filepath.Glob("../internal/delivery/http/v1/*_handler.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	routes := map[string]string{}
	for _, name := range files {
		f, err := os.Open(name)
		require.NoError(t, err)
		var tag string
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := sc.Text()
			if m := tagsRe.FindStringSubmatch(line); m != nil {
				tag = m[1]
			}
			if m := routerRe.FindStringSubmatch(line); m != nil {
				routes[m[2]+" "+m[1]] = tag
			}
		}
		require.NoError(t, sc.Err())
		f.Close()
	}
	return routes
}

func TestDocMatchesHandlerAnnotations(t *testing.T) {
	var doc struct {
		Paths       map[string]map[string]operation `json:"paths"`
		Definitions map[string]json.RawMessage      `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	documented := map[string]string{}
	for path, ops := range doc.Paths {
		for method, op := range ops {
			require.Len(t, op.Tags, 1, "%s %s", method, path)
			assert.NotEmpty(t, op.Summary, "%s %s", method, path)
			documented[method+" "+path] = op.Tags[0]
		}
	}
	assert.Equal(t, annotatedRoutes(t), documented)

	for _, name := range []string{"response.Envelope", "domain.LoginRequest", "domain.ContactRequest", "domain.PublicPortfolio"} {
		assert.Contains(t, doc.Definitions, name)
	}
}

func TestSwaggerInfo(t *testing.T) {
	assert.Equal(t, "/v1", SwaggerInfo.BasePath)
	assert.Contains(t, SwaggerInfo.ReadDoc(), `"SessionCookie"`)
}
