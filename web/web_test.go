package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViews_EmbedsSharedLayout(t *testing.T) {
	layouts, err := fs.Glob(Views(), "Shared/*.html")
	require.NoError(t, err)
	assert.Contains(t, layouts, "Shared/_Layout.html")
}

func TestViews_EmbedsControllerViews(t *testing.T) {
	for _, name := range []string{
		"Home/Index.html",
		"Home/Error.html",
		"Students/Index.html",
		"Students/Create.html",
		"Courses/Details.html",
	} {
		_, err := fs.Stat(Views(), name)
		assert.NoError(t, err, name)
	}
}

func TestStatic_EmbedsSiteCSS(t *testing.T) {
	_, err := fs.Stat(Static(), "css/site.css")
	assert.NoError(t, err)
}
