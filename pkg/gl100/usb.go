package gl100

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// USB identifiers for the Mooer GL100.
const (
	VendorID  = 0x34DB // Mooer Corporation
	ProductID = 0x0008 // GL100
)

// Endpoint layout, from lsusb on the device:
// interface 0 carries 0x02 (commands out) and 0x81 (status in),
// interface 1 carries 0x03 (data out) and 0x83 (data in).
// All four are interrupt endpoints.
const (
	epCmdOut   = 2 // 0x02
	epStatusIn = 1 // 0x81
	epDataOut  = 3 // 0x03
	epDataIn   = 3 // 0x83
)

// DefaultTimeout bounds a single command/response round-trip when the
// caller does not configure one.
const DefaultTimeout = 5 * time.Second

// USBTransport is the gousb-backed Transport for a connected GL100.
type USBTransport struct {
	ctx     *gousb.Context
	dev     *gousb.Device
	config  *gousb.Config
	intf0   *gousb.Interface
	intf1   *gousb.Interface
	timeout time.Duration

	cmdOut   *gousb.OutEndpoint
	dataOut  *gousb.OutEndpoint
	dataIn   *gousb.InEndpoint
	statusIn *gousb.InEndpoint
}

// OpenUSB finds and opens a GL100, detaching kernel drivers and
// claiming both interfaces. Every failure path releases whatever was
// acquired before it. timeout bounds each individual transfer; zero
// means DefaultTimeout.
func OpenUSB(vid, pid uint16, timeout time.Duration) (*USBTransport, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx := gousb.NewContext()
	ctx.Debug(0)

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to open device: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("GL100 not found (VID=%04X, PID=%04X)", vid, pid)
	}

	// Both interfaces may have kernel drivers attached (audio class).
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("failed to set auto detach: %w", err)
	}

	config, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	intf0, err := config.Interface(0, 0)
	if err != nil {
		config.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("failed to claim interface 0: %w", err)
	}

	intf1, err := config.Interface(1, 0)
	if err != nil {
		intf0.Close()
		config.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("failed to claim interface 1: %w", err)
	}

	t := &USBTransport{ctx: ctx, dev: dev, config: config, intf0: intf0, intf1: intf1, timeout: timeout}

	if t.cmdOut, err = intf0.OutEndpoint(epCmdOut); err == nil {
		if t.statusIn, err = intf0.InEndpoint(epStatusIn); err == nil {
			if t.dataOut, err = intf1.OutEndpoint(epDataOut); err == nil {
				t.dataIn, err = intf1.InEndpoint(epDataIn)
			}
		}
	}
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("failed to open endpoints: %w", err)
	}

	return t, nil
}

// Close releases interfaces, configuration, device and context.
func (t *USBTransport) Close() error {
	if t.intf1 != nil {
		t.intf1.Close()
	}
	if t.intf0 != nil {
		t.intf0.Close()
	}
	if t.config != nil {
		t.config.Close()
	}
	if t.dev != nil {
		t.dev.Close()
	}
	if t.ctx != nil {
		t.ctx.Close()
	}
	return nil
}

// bound applies the per-transfer timeout on top of the caller's
// context.
func (t *USBTransport) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.timeout)
}

// SendCommand writes a command frame to the command endpoint.
func (t *USBTransport) SendCommand(ctx context.Context, frame []byte) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	n, err := t.cmdOut.WriteContext(ctx, frame)
	if err != nil {
		return fmt.Errorf("command write failed: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("command short write: sent %d of %d", n, len(frame))
	}
	return nil
}

// SendData writes a chunk payload to the data-out endpoint.
func (t *USBTransport) SendData(ctx context.Context, chunk []byte) error {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	n, err := t.dataOut.WriteContext(ctx, chunk)
	if err != nil {
		return fmt.Errorf("data write failed: %w", err)
	}
	if n != len(chunk) {
		return fmt.Errorf("data short write: sent %d of %d", n, len(chunk))
	}
	return nil
}

// ReadData reads up to max bytes from the data-in endpoint.
func (t *USBTransport) ReadData(ctx context.Context, max int) ([]byte, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	buf := make([]byte, max)
	n, err := t.dataIn.ReadContext(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("data read failed: %w", err)
	}
	return buf[:n], nil
}

// ReadStatus reads a short acknowledgement from the status endpoint.
func (t *USBTransport) ReadStatus(ctx context.Context, max int) ([]byte, error) {
	ctx, cancel := t.bound(ctx)
	defer cancel()
	buf := make([]byte, max)
	n, err := t.statusIn.ReadContext(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("status read failed: %w", err)
	}
	return buf[:n], nil
}

// Description returns device descriptor strings for display.
func (t *USBTransport) Description() string {
	manufacturer, _ := t.dev.Manufacturer()
	product, _ := t.dev.Product()
	serial, _ := t.dev.SerialNumber()
	return fmt.Sprintf("Manufacturer: %s, Product: %s, Serial: %s", manufacturer, product, serial)
}

// Endpoints returns a human-readable dump of the claimed endpoints.
func (t *USBTransport) Endpoints() []string {
	var out []string
	for _, intf := range []*gousb.Interface{t.intf0, t.intf1} {
		if intf == nil {
			continue
		}
		for _, ep := range intf.Setting.Endpoints {
			out = append(out, fmt.Sprintf("interface %d: %s", intf.Setting.Number, ep.String()))
		}
	}
	return out
}
