package mvc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/minimvc/pkg/mvc"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		prefix, suffix string
		want           string
	}{
		{"/demo", "query", "/demo/query"},
		{"demo", "/query", "/demo/query"},
		{"/demo/", "/query/", "/demo/query/"},
		{"", "query", "/query"},
		{"", "", "/"},
		{"//a///b", "//c", "/a/b/c"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+"+"+tt.suffix, func(t *testing.T) {
			got := mvc.JoinPath(tt.prefix, tt.suffix)
			assert.Equal(t, tt.want, got.Raw())
			assert.NotContains(t, got.Raw(), "//")
		})
	}
}

func TestPathPattern_Parts(t *testing.T) {
	parts := mvc.PathPattern("/users/{id:int}/posts/{slug}/{*}").Parts()
	require.Len(t, parts, 6)

	assert.Equal(t, mvc.PathPart{Type: mvc.StaticPart, Value: "/users/"}, parts[0])
	assert.Equal(t, mvc.PathPart{Type: mvc.ParameterPart, Value: "id", ParamType: "int"}, parts[1])
	assert.Equal(t, mvc.PathPart{Type: mvc.StaticPart, Value: "/posts/"}, parts[2])
	assert.Equal(t, mvc.PathPart{Type: mvc.ParameterPart, Value: "slug"}, parts[3])
	assert.Equal(t, mvc.PathPart{Type: mvc.StaticPart, Value: "/"}, parts[4])
	assert.Equal(t, mvc.PathPart{Type: mvc.WildcardPart, Value: "*"}, parts[5])
}

func TestPathPattern_RegexQuantifiersStayLiteral(t *testing.T) {
	parts := mvc.PathPattern(`/code/[0-9]{3}`).Parts()
	require.Len(t, parts, 1)
	assert.Equal(t, mvc.StaticPart, parts[0].Type)
	assert.Equal(t, `/code/[0-9]{3}`, parts[0].Value)
}

func TestPathPattern_Compile(t *testing.T) {
	tests := []struct {
		pattern string
		match   []string
		reject  []string
	}{
		{"/demo/query", []string{"/demo/query"}, []string{"/demo/query/x", "/x/demo/query", "/demo/quer"}},
		{"/users/{id:int}", []string{"/users/1", "/users/-42"}, []string{"/users/abc", "/users/1/2", "/users/"}},
		{"/files/{name}", []string{"/files/a.txt"}, []string{"/files/a/b"}},
		{"/static/{*}", []string{"/static/", "/static/css/site.css"}, []string{"/stat"}},
		{`/code/[0-9]{3}`, []string{"/code/404"}, []string{"/code/40", "/code/4044"}},
		{"/items/{id:uuid}", []string{"/items/123e4567-e89b-12d3-a456-426614174000"}, []string{"/items/123"}},
		{"/a.*", []string{"/a", "/abc/def"}, []string{"/b"}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := mvc.PathPattern(tt.pattern).Compile()
			require.NoError(t, err)
			for _, p := range tt.match {
				assert.True(t, re.MatchString(p), "%s should match %s", tt.pattern, p)
			}
			for _, p := range tt.reject {
				assert.False(t, re.MatchString(p), "%s should not match %s", tt.pattern, p)
			}
		})
	}
}

func TestPathPattern_CompileInvalid(t *testing.T) {
	_, err := mvc.PathPattern("/broken/(").Compile()
	assert.Error(t, err)
}

func TestPathPattern_Placeholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, mvc.PathPattern("/{a}/x/{b:int}").Placeholders())
	assert.Empty(t, mvc.PathPattern("/plain").Placeholders())
}

func TestNormalizeRequestPath(t *testing.T) {
	tests := []struct {
		path, contextPath, want string
	}{
		{"/demo/query", "", "/demo/query"},
		{"//demo///query", "", "/demo/query"},
		{"/shop/demo/query", "/shop", "/demo/query"},
		{"/shop/demo/query", "/shop/", "/demo/query"},
		{"/shop", "/shop", "/"},
		{"/shopping/cart", "/shop", "/shopping/cart"},
		{"", "", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.path+"|"+tt.contextPath, func(t *testing.T) {
			got := mvc.NormalizeRequestPath(tt.path, tt.contextPath)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.Contains(got, "//"))
		})
	}
}
