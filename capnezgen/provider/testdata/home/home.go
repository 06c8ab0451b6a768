// Package home is a sample annotated model scanned by provider tests.
package home

//capnez:schema
type Person struct {
	Name    string
	Age     uint32
	Contact *ContactInfo
	Tags    []string
}

//capnez:schema
type ContactInfo struct {
	Email string
	Phone string
}

//capnez:bytes
type Telemetry struct {
	Samples []float64
}

// Unmarked types are ignored.
type Internal struct {
	Hidden bool
}

//capnez:schema
type DeviceKind uint32

const (
	KindLight DeviceKind = iota
	KindThermostat
	KindCamera
)

//capnez:schema
type HomeApi interface {
	GetPerson(name string) Person
	ListTags(person Person, limit uint32) []string
	Shutdown()
}
