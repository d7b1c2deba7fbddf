package hardware

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// OpenSerial opens name at baud, 8N1.
func OpenSerial(name string, baud int) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPorts enumerates serial ports with USB descriptors when available.
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil || len(details) == 0 {
		names, lerr := serial.GetPortsList()
		if lerr != nil {
			if err != nil {
				return nil, err
			}
			return nil, lerr
		}
		out := make([]PortInfo, 0, len(names))
		for _, n := range names {
			out = append(out, PortInfo{Name: n})
		}
		return out, nil
	}
	out := make([]PortInfo, 0, len(details))
	for _, d := range details {
		desc := d.Product
		if d.IsUSB {
			desc = fmt.Sprintf("%s usb vid=%s pid=%s", desc, strings.ToLower(d.VID), strings.ToLower(d.PID))
		}
		out = append(out, PortInfo{Name: d.Name, Description: strings.TrimSpace(desc)})
	}
	return out, nil
}
