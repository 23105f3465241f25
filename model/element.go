package model

import "fmt"

// ElementKind classifies an array element for maintenance planning and for
// translation into the logistics collaborator's vocabulary.
type ElementKind int

const (
	ElementUnknown ElementKind = iota
	ElementDevice
	ElementSubhub
	ElementStaticCable
	ElementDynamicCable
	ElementMooringLine
	ElementFoundation
	ElementCollectionPoint
	ElementGeneric
)

var elementKindNames = map[ElementKind]string{
	ElementUnknown:         "unknown",
	ElementDevice:          "device",
	ElementSubhub:          "subhub",
	ElementStaticCable:     "static cable",
	ElementDynamicCable:    "dynamic cable",
	ElementMooringLine:     "mooring line",
	ElementFoundation:      "foundation",
	ElementCollectionPoint: "collection point",
	ElementGeneric:         "generic",
}

func (k ElementKind) String() string {
	if s, ok := elementKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// LogisticsName is the element type label expected by the logistics
// collaborator for this kind of element.
func (k ElementKind) LogisticsName() string {
	switch k {
	case ElementDevice:
		return "device"
	case ElementSubhub, ElementCollectionPoint:
		return "collection point"
	case ElementStaticCable:
		return "static cable"
	case ElementDynamicCable:
		return "dynamic cable"
	case ElementMooringLine:
		return "mooring line"
	case ElementFoundation:
		return "foundation"
	default:
		return "device"
	}
}

// IsArrayLevel reports whether a failure of this element can affect more than
// one device at once.
func (k ElementKind) IsArrayLevel() bool {
	switch k {
	case ElementDevice:
		return false
	default:
		return true
	}
}

// BreakdownSet records which devices lose output when an element fails. The
// special "all" form marks an element whose failure takes down the whole
// array, such as the export cable.
type BreakdownSet struct {
	All     bool
	Devices []string
}

// BreakdownAll returns a set covering every device.
func BreakdownAll() BreakdownSet { return BreakdownSet{All: true} }

// BreakdownOf returns a set covering the named devices.
func BreakdownOf(devices ...string) BreakdownSet {
	return BreakdownSet{Devices: append([]string(nil), devices...)}
}

// Resolve expands the set against the full device list.
func (b BreakdownSet) Resolve(allDevices []string) []string {
	if b.All {
		return append([]string(nil), allDevices...)
	}
	return append([]string(nil), b.Devices...)
}

// Contains reports whether the device belongs to the set.
func (b BreakdownSet) Contains(device string) bool {
	if b.All {
		return true
	}
	for _, d := range b.Devices {
		if d == device {
			return true
		}
	}
	return false
}
