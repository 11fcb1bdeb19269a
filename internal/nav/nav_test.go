package nav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMarksActive(t *testing.T) {
	t.Parallel()

	items := Build("/cars/42")
	require.Len(t, items, len(Main))
	require.True(t, items[0].Active)
	for _, it := range items[1:] {
		require.False(t, it.Active, it.Href)
	}
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	crumbs := Breadcrumbs("/cars/42", "2019 Toyota Camry")
	require.Len(t, crumbs, 3)
	require.Equal(t, "nav.home", crumbs[0].LabelKey)
	require.Equal(t, "nav.cars", crumbs[1].LabelKey)
	require.Equal(t, "/cars/42", crumbs[2].Href)
	require.Equal(t, "2019 Toyota Camry", crumbs[2].Label)
	require.True(t, crumbs[2].Active)

	about := Breadcrumbs("/about-us", "")
	require.Equal(t, "About us", about[1].Label)

	require.Len(t, Breadcrumbs("/", ""), 1)
}
