package capnp

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xWOLAND/capnez/capnezgen/ir"
)

// emit maps, orders, and renders a declaration set in one step.
func emit(t *testing.T, decls *ir.DeclarationSet) string {
	t.Helper()
	set := mapDecls(t, decls)
	ordered, err := ResolveOrder(set)
	require.NoError(t, err)
	em := &Emitter{}
	return string(em.Emit(set, ordered))
}

func TestEmitHeader(t *testing.T) {
	out := emit(t, &ir.DeclarationSet{})
	assert.True(t, strings.HasPrefix(out, "@0xabcdefabcdefabcdef;\n\n"))
}

func TestEmitCustomFileID(t *testing.T) {
	em := &Emitter{FileID: 0x9eb32e19f86ee174}
	out := string(em.Emit(&ir.MappedSet{}, nil))
	assert.True(t, strings.HasPrefix(out, "@0x9eb32e19f86ee174;\n\n"))
}

func TestEmitRecordFields(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddRecord(ir.RecordDecl{
		Name: "Person",
		Fields: []ir.Field{
			{Name: "name", Type: ir.Named("string")},
			{Name: "tags", Type: ir.List(ir.Named("string"))},
			{Name: "contact_info", Type: ir.Named("ContactInfo")},
		},
	})
	decls.AddRecord(ir.RecordDecl{
		Name:   "ContactInfo",
		Fields: []ir.Field{{Name: "email", Type: ir.Named("string")}},
	})

	out := emit(t, decls)

	// Referencer comes after its dependency.
	assert.Less(t, strings.Index(out, "struct ContactInfo"), strings.Index(out, "struct Person"))

	assert.Contains(t, out, "  name @0 :Text;\n")
	assert.Contains(t, out, "  tags @1 :List(Text);\n")
	assert.Contains(t, out, "  contactInfo @2 :ContactInfo;\n")
}

func TestEmitOptionalRendering(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddRecord(ir.RecordDecl{
		Name:   "Config",
		Fields: []ir.Field{{Name: "retries", Type: ir.Optional(ir.Named("uint32"))}},
	})

	out := emit(t, decls)
	assert.Contains(t, out, "retries @0 :union {\n  value @0 :UInt32;\n  none @1 :Void;\n};\n")
}

func TestEmitSumWithoutPayloadIsEnum(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddSum(ir.SumDecl{
		Name:     "DeviceKind",
		Variants: []ir.Variant{{Name: "Thermostat"}, {Name: "Light"}, {Name: "Camera"}},
	})

	out := emit(t, decls)
	assert.Contains(t, out, "enum DeviceKind {\n  thermostat @0;\n  light @1;\n  camera @2;\n}\n\n")
	assert.NotContains(t, out, "struct DeviceKind")
}

func TestEmitSumWithPayloadIsStruct(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddSum(ir.SumDecl{
		Name: "Status",
		Variants: []ir.Variant{
			{Name: "Idle"},
			{Name: "Error", Payload: []ir.HostType{ir.Named("uint32")}},
		},
	})

	out := emit(t, decls)
	// One payload-carrying variant forces the struct representation for
	// every variant, bare ones included.
	assert.Contains(t, out, "struct Status {\n  idle @0 :Void;\n  error @1 :UInt32;\n}\n\n")
	assert.NotContains(t, out, "enum Status")
}

func TestEmitOpaqueBytes(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddRecord(ir.RecordDecl{Name: "Snapshot", Opaque: true})
	decls.AddRecord(ir.RecordDecl{
		Name:   "Device",
		Fields: []ir.Field{{Name: "telemetry", Type: ir.Named("Snapshot")}},
	})

	out := emit(t, decls)
	assert.Contains(t, out, "  telemetry @0 :List(UInt8);\n")
	assert.NotContains(t, out, "struct Snapshot")
}

func TestEmitInterface(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddRecord(ir.RecordDecl{
		Name:   "HelloReply",
		Fields: []ir.Field{{Name: "message", Type: ir.Named("string")}},
	})
	decls.AddInterface(ir.InterfaceDecl{
		Name: "HelloWorld",
		Methods: []ir.Method{
			{
				Name:   "say_hello",
				Params: []ir.Param{{Name: "name", Type: ir.Named("string")}, {Name: "count", Type: ir.Named("uint32")}},
				Return: &ir.HostType{Kind: ir.KindNamed, Name: "HelloReply"},
			},
			{Name: "shutdown"},
		},
	})

	out := emit(t, decls)
	assert.Contains(t, out, "interface HelloWorld {\n")
	assert.Contains(t, out, "  sayHello @0 (name :Text, count :UInt32) -> HelloReply;\n")
	assert.Contains(t, out, "  shutdown @1 ();\n")

	// Interfaces trail all type declarations.
	assert.Less(t, strings.Index(out, "struct HelloReply"), strings.Index(out, "interface HelloWorld"))
}

func TestEmitOrdinalStability(t *testing.T) {
	decls := &ir.DeclarationSet{}
	decls.AddRecord(ir.RecordDecl{
		Name: "Entry",
		Fields: []ir.Field{
			{Name: "name", Type: ir.Named("string")},
			{Name: "tags", Type: ir.List(ir.Named("string"))},
			{Name: "meta", Type: ir.Optional(ir.Named("uint32"))},
		},
	})

	out := emit(t, decls)
	assert.Contains(t, out, "name @0 :")
	assert.Contains(t, out, "tags @1 :")
	assert.Contains(t, out, "meta @2 :")
}

// TestEmitGolden renders a full home-automation schema and compares it
// against the golden file. Regenerate with: go test ./capnezgen/capnp -update
func TestEmitGolden(t *testing.T) {
	decls := homeAutomationDecls()

	out := emit(t, decls)

	g := goldie.New(t)
	g.Assert(t, "home_automation", []byte(out))
}

func homeAutomationDecls() *ir.DeclarationSet {
	decls := &ir.DeclarationSet{}
	decls.AddRecord(ir.RecordDecl{Name: "Home", Fields: []ir.Field{
		{Name: "owner", Type: ir.Named("Person")},
		{Name: "address", Type: ir.Named("string")},
		{Name: "rooms", Type: ir.List(ir.Named("Room"))},
		{Name: "security_system", Type: ir.Named("SecuritySystem")},
		{Name: "nickname", Type: ir.Optional(ir.Named("string"))},
	}})
	decls.AddRecord(ir.RecordDecl{Name: "Person", Fields: []ir.Field{
		{Name: "name", Type: ir.Named("string")},
		{Name: "age", Type: ir.Named("uint32")},
		{Name: "contact_info", Type: ir.Named("ContactInfo")},
	}})
	decls.AddRecord(ir.RecordDecl{Name: "ContactInfo", Fields: []ir.Field{
		{Name: "email", Type: ir.Named("string")},
		{Name: "phone", Type: ir.Named("string")},
	}})
	decls.AddRecord(ir.RecordDecl{Name: "Room", Fields: []ir.Field{
		{Name: "name", Type: ir.Named("string")},
		{Name: "devices", Type: ir.List(ir.Named("Device"))},
	}})
	decls.AddRecord(ir.RecordDecl{Name: "Device", Fields: []ir.Field{
		{Name: "id", Type: ir.Named("string")},
		{Name: "kind", Type: ir.Named("DeviceKind")},
		{Name: "status", Type: ir.Named("DeviceStatus")},
		{Name: "telemetry", Type: ir.Named("Telemetry")},
	}})
	decls.AddRecord(ir.RecordDecl{Name: "DeviceStatus", Fields: []ir.Field{
		{Name: "online", Type: ir.Named("bool")},
		{Name: "battery_level", Type: ir.Named("uint32")},
	}})
	decls.AddRecord(ir.RecordDecl{Name: "SecuritySystem", Fields: []ir.Field{
		{Name: "armed", Type: ir.Named("bool")},
		{Name: "cameras", Type: ir.List(ir.Named("Device"))},
	}})
	decls.AddRecord(ir.RecordDecl{Name: "Telemetry", Opaque: true, Fields: []ir.Field{
		{Name: "samples", Type: ir.List(ir.Named("float64"))},
	}})
	decls.AddSum(ir.SumDecl{Name: "DeviceKind", Variants: []ir.Variant{
		{Name: "Thermostat"}, {Name: "Light"}, {Name: "Camera"}, {Name: "Lock"},
	}})
	decls.AddInterface(ir.InterfaceDecl{Name: "HomeApi", Methods: []ir.Method{
		{
			Name:   "get_home",
			Params: []ir.Param{{Name: "id", Type: ir.Named("string")}},
			Return: &ir.HostType{Kind: ir.KindNamed, Name: "Home"},
		},
		{
			Name: "list_devices",
			Params: []ir.Param{
				{Name: "home_id", Type: ir.Named("string")},
				{Name: "room", Type: ir.Named("string")},
			},
			Return: &ir.HostType{Kind: ir.KindList, Elem: &ir.HostType{Kind: ir.KindNamed, Name: "Device"}},
		},
	}})
	return decls
}
