package posttype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterReplacesInPlace(t *testing.T) {
	r := NewRegistry()
	r.Register(PostType{Name: "post", Label: "Posts"})
	r.Register(PostType{Name: "book", Label: "Books"})
	r.Register(PostType{Name: "post", Label: "Articles", ShowInGraphQL: true})

	require.Equal(t, []string{"post", "book"}, r.Names())
	pt, ok := r.Lookup("post")
	require.True(t, ok)
	require.Equal(t, "Articles", pt.Label)
	require.Equal(t, []string{"post"}, r.TypesWithFlag(FlagShowInGraphQL))
}

func TestLookupReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register(PostType{Name: "post"})
	pt, _ := r.Lookup("post")
	pt.ShowInGraphQL = true

	require.Empty(t, r.TypesWithFlag(FlagShowInGraphQL))
}

func TestSetFlag(t *testing.T) {
	r := NewRegistry()
	r.RegisterBuiltins()

	require.True(t, r.SetFlag(Page, FlagShowInGraphQL, true))
	require.True(t, r.SetFlag(Post, FlagShowInGraphQL, true))
	require.False(t, r.SetFlag("missing", FlagShowInGraphQL, true))
	require.False(t, r.SetFlag(Post, "no_such_flag", true))

	require.Equal(t, []string{Post, Page}, r.TypesWithFlag(FlagShowInGraphQL))
	require.Equal(t, []string{Page}, r.TypesWithFlag(FlagHierarchical))
	require.Equal(t, []string{Post, Page, Attachment}, r.TypesWithFlag(FlagPublic))
}

func TestUnregisterAndReset(t *testing.T) {
	r := NewRegistry()
	r.RegisterBuiltins()

	require.True(t, r.Unregister(Attachment))
	require.False(t, r.Unregister(Attachment))
	_, ok := r.Lookup(Attachment)
	require.False(t, ok)
	require.Equal(t, []string{Post, Page, Revision, NavMenu}, r.Names())

	r.Reset()
	require.Empty(t, r.Names())
}
