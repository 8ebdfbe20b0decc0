package wayland

// Object ids and opcodes of the interfaces the widget uses.
// Requests and events share opcode space per interface, not globally.

const displayID uint32 = 1

const (
	ifaceCompositor    = "wl_compositor"
	ifaceShm           = "wl_shm"
	ifaceSeat          = "wl_seat"
	ifaceLayerShell    = "zwlr_layer_shell_v1"
	ifaceCursorManager = "wp_cursor_shape_manager_v1"
)

// wl_display
const (
	displaySync        uint16 = 0
	displayGetRegistry uint16 = 1

	displayEventError    uint16 = 0
	displayEventDeleteID uint16 = 1
)

// wl_registry
const (
	registryBind uint16 = 0

	registryEventGlobal       uint16 = 0
	registryEventGlobalRemove uint16 = 1
)

// wl_callback
const callbackEventDone uint16 = 0

// wl_compositor
const (
	compositorCreateSurface uint16 = 0
	compositorCreateRegion  uint16 = 1
)

// wl_shm, wl_shm_pool, wl_buffer
const (
	shmCreatePool uint16 = 0

	poolCreateBuffer uint16 = 0
	poolDestroy      uint16 = 1

	bufferDestroy uint16 = 0

	// wl_shm.format argb8888: premultiplied 0xAARRGGBB in native byte order
	formatARGB8888 uint32 = 0
)

// wl_surface
const (
	surfaceDestroy        uint16 = 0
	surfaceAttach         uint16 = 1
	surfaceDamage         uint16 = 2
	surfaceSetInputRegion uint16 = 5
	surfaceCommit         uint16 = 6
)

// wl_region
const (
	regionDestroy uint16 = 0
	regionAdd     uint16 = 1
)

// wl_seat
const (
	seatGetPointer uint16 = 0

	seatEventCapabilities uint16 = 0

	seatCapabilityPointer uint32 = 1
)

// wl_pointer
const (
	pointerEventEnter  uint16 = 0
	pointerEventLeave  uint16 = 1
	pointerEventMotion uint16 = 2
	pointerEventButton uint16 = 3

	buttonStatePressed uint32 = 1
)

// zwlr_layer_shell_v1, zwlr_layer_surface_v1
const (
	layerShellGetLayerSurface uint16 = 0

	layerBottom uint32 = 1

	layerSurfaceSetSize                  uint16 = 0
	layerSurfaceSetAnchor                uint16 = 1
	layerSurfaceSetExclusiveZone         uint16 = 2
	layerSurfaceSetMargin                uint16 = 3
	layerSurfaceSetKeyboardInteractivity uint16 = 4
	layerSurfaceAckConfigure             uint16 = 6
	layerSurfaceDestroy                  uint16 = 7

	layerSurfaceEventConfigure uint16 = 0
	layerSurfaceEventClosed    uint16 = 1

	anchorBottom uint32 = 2
	anchorRight  uint32 = 8

	keyboardInteractivityNone uint32 = 0
)

// wp_cursor_shape_manager_v1, wp_cursor_shape_device_v1
const (
	cursorManagerGetPointer uint16 = 1

	cursorDeviceDestroy  uint16 = 0
	cursorDeviceSetShape uint16 = 1

	shapeDefault uint32 = 1
	shapePointer uint32 = 4
)

const namespace = "musicwidget"

// Versions the client is written against; the bound version is the
// minimum of these and what the compositor advertises.
var wantVersions = map[string]uint32{
	ifaceCompositor:    4,
	ifaceShm:           1,
	ifaceSeat:          5,
	ifaceLayerShell:    1,
	ifaceCursorManager: 1,
}

// global is one interface advertised by the registry
type global struct {
	name    uint32
	version uint32
}
