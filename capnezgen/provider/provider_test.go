package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xWOLAND/capnez/capnezgen/ir"
)

func collectHome(t *testing.T) *ir.DeclarationSet {
	t.Helper()
	decls, err := Collect(context.Background(), Options{
		Packages: []string{"."},
		Dir:      "testdata/home",
	})
	require.NoError(t, err)
	return decls
}

func TestCollect_Records(t *testing.T) {
	decls := collectHome(t)

	person := decls.FindRecord("Person")
	require.NotNil(t, person)
	assert.True(t, person.Schema)
	assert.False(t, person.Opaque)
	require.Len(t, person.Fields, 4)

	assert.Equal(t, "Name", person.Fields[0].Name)
	assert.Equal(t, ir.Named("string"), person.Fields[0].Type)
	assert.Equal(t, ir.Named("uint32"), person.Fields[1].Type)
	assert.Equal(t, ir.Optional(ir.Named("ContactInfo")), person.Fields[2].Type)
	assert.Equal(t, ir.List(ir.Named("string")), person.Fields[3].Type)

	telemetry := decls.FindRecord("Telemetry")
	require.NotNil(t, telemetry)
	assert.False(t, telemetry.Schema)
	assert.True(t, telemetry.Opaque)

	assert.Nil(t, decls.FindRecord("Internal"), "unmarked types must be ignored")
}

func TestCollect_EnumFromConstGroup(t *testing.T) {
	decls := collectHome(t)

	kind := decls.FindSum("DeviceKind")
	require.NotNil(t, kind)
	require.Len(t, kind.Variants, 3)
	assert.Equal(t, "KindLight", kind.Variants[0].Name)
	assert.Equal(t, "KindThermostat", kind.Variants[1].Name)
	assert.Equal(t, "KindCamera", kind.Variants[2].Name)
	assert.False(t, kind.HasPayload())
}

func TestCollect_Interface(t *testing.T) {
	decls := collectHome(t)

	require.Len(t, decls.Interfaces, 1)
	api := decls.Interfaces[0]
	assert.Equal(t, "HomeApi", api.Name)
	require.Len(t, api.Methods, 3)

	get := api.Methods[0]
	assert.Equal(t, "GetPerson", get.Name)
	require.Len(t, get.Params, 1)
	assert.Equal(t, ir.Param{Name: "name", Type: ir.Named("string")}, get.Params[0])
	require.NotNil(t, get.Return)
	assert.Equal(t, ir.Named("Person"), *get.Return)

	list := api.Methods[1]
	require.Len(t, list.Params, 2)
	require.NotNil(t, list.Return)
	assert.Equal(t, ir.List(ir.Named("string")), *list.Return)

	shutdown := api.Methods[2]
	assert.Empty(t, shutdown.Params)
	assert.Nil(t, shutdown.Return)
}

func TestCollect_FeedsPipeline(t *testing.T) {
	decls := collectHome(t)

	registry := ir.BuildRegistry(decls)
	assert.Equal(t, ir.ClassSchemaNative, registry.Classify("Person"))
	assert.Equal(t, ir.ClassOpaqueOnly, registry.Classify("Telemetry"))
	assert.Equal(t, ir.ClassSchemaNative, registry.Classify("DeviceKind"))
}

func TestCollect_NoPackages(t *testing.T) {
	_, err := Collect(context.Background(), Options{})
	assert.Error(t, err)
}

func TestDoubleMarkedTypeStaysSchemaNative(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddRecord(ir.RecordDecl{Name: "Both", Schema: true, Opaque: true})

	registry := ir.BuildRegistry(decls)
	assert.Equal(t, ir.ClassSchemaNative, registry.Classify("Both"))
}
