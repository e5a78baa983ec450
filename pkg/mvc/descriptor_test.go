package mvc_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/minimvc/pkg/mvc"
)

func TestComponentDescriptor_Key(t *testing.T) {
	tests := []struct {
		name string
		desc mvc.ComponentDescriptor
		want string
	}{
		{"simple name", mvc.ComponentDescriptor{TypeName: "app/service.DemoService"}, "demoService"},
		{"unqualified", mvc.ComponentDescriptor{TypeName: "Demo"}, "demo"},
		{"explicit name", mvc.ComponentDescriptor{TypeName: "app.Demo", Name: " primary "}, "primary"},
		{"already lower", mvc.ComponentDescriptor{TypeName: "app.demo"}, "demo"},
		{"unicode", mvc.ComponentDescriptor{TypeName: "app.Ärger"}, "ärger"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.desc.Key())
		})
	}
}

func TestInjectionPoint_Key(t *testing.T) {
	assert.Equal(t, "app/service.Greeter", mvc.InjectionPoint{TypeName: "app/service.Greeter"}.Key())
	assert.Equal(t, "special", mvc.InjectionPoint{TypeName: "app/service.Greeter", Name: "special"}.Key())
}

func TestArgAs(t *testing.T) {
	args := mvc.Args{"text", 42, nil}

	s, err := mvc.ArgAs[string](args, 0)
	require.NoError(t, err)
	assert.Equal(t, "text", s)

	n, err := mvc.ArgAs[int](args, 1)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	zero, err := mvc.ArgAs[int](args, 2)
	require.NoError(t, err)
	assert.Zero(t, zero)

	missing, err := mvc.ArgAs[*http.Request](args, 7)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = mvc.ArgAs[int](args, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, mvc.ErrCoercion)
	var cerr *mvc.CoercionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 0, cerr.Position)
	assert.Equal(t, "int", cerr.Type)
}

func TestTable(t *testing.T) {
	table, err := mvc.NewTable(serviceDescriptor(), controllerDescriptor())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	var names []string
	for name, err := range table.Types("") {
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.Equal(t, []string{serviceType, controllerType}, names)

	d, ok := table.Lookup(controllerType)
	require.True(t, ok)
	assert.Equal(t, "/demo", d.Prefix)

	_, ok = table.Lookup("app.Missing")
	assert.False(t, ok)
}

func TestTable_Duplicate(t *testing.T) {
	_, err := mvc.NewTable(serviceDescriptor(), serviceDescriptor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "described twice")

	_, err = mvc.NewTable(mvc.ComponentDescriptor{})
	require.Error(t, err)

	assert.Panics(t, func() { mvc.MustTable(serviceDescriptor(), serviceDescriptor()) })
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "controller", mvc.KindController.String())
	assert.Equal(t, "service", mvc.KindService.String())
	assert.Equal(t, "unknown", mvc.KindUnknown.String())
}

func TestSetter(t *testing.T) {
	assign := mvc.Setter(func(c *greetingController, g greeter) { c.Greeter = g })

	c := &greetingController{}
	svc := &greetingService{Prefix: "hi "}
	require.NoError(t, assign(c, svc))
	assert.Same(t, svc, c.Greeter)

	err := assign("owner", svc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner is string, want *mvc_test.greetingController")

	err = assign(c, "not a greeter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency is string, want mvc_test.greeter")
}
