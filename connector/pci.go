package connector

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/atheepmgr/atheepmgr/eep"
)

// PCIRegisters is a RegisterSource backed by an mmap of a PCI BAR (word
// access goes through EEPROMWindow), opened directly against the sysfs resource file the kernel exposes
// for a bound device (/sys/bus/pci/devices/<bdf>/resource<n>). This is the
// one place atheepmgr touches real hardware registers; everything else in
// the eep package only ever sees a Source interface.
type PCIRegisters struct {
	eep.BaseSource

	f    *os.File
	mem  []byte
	base uint32
}

// OpenPCIBAR mmaps the given resource file read-write. size must match the
// BAR's advertised length; the kernel rejects a larger mapping.
func OpenPCIBAR(path string, size int) (*PCIRegisters, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening PCI resource %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap PCI resource %s: %w", path, err)
	}
	return &PCIRegisters{BaseSource: eep.NewBaseSource(eep.CapHW), f: f, mem: mem}, nil
}

// Close unmaps the BAR and closes the underlying file.
func (p *PCIRegisters) Close() error {
	if err := unix.Munmap(p.mem); err != nil {
		p.f.Close()
		return err
	}
	return p.f.Close()
}

// ReadRegister implements eep.RegisterSource over the mmap'd BAR. ctx is
// honoured only as a fast pre-check — a live mmap read cannot be
// interrupted mid-instruction — matching §5's note that cancellation
// applies at I/O boundaries, not mid-register-access.
func (p *PCIRegisters) ReadRegister(ctx context.Context, addr uint32) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if int(addr)+4 > len(p.mem) {
		return 0, fmt.Errorf("register offset %#x out of BAR range", addr)
	}
	return binary.LittleEndian.Uint32(p.mem[addr : addr+4]), nil
}

// WriteRegister implements eep.RegisterSource.
func (p *PCIRegisters) WriteRegister(ctx context.Context, addr uint32, val uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if int(addr)+4 > len(p.mem) {
		return fmt.Errorf("register offset %#x out of BAR range", addr)
	}
	binary.LittleEndian.PutUint32(p.mem[addr:addr+4], val)
	return nil
}

// EEPROMWindow adapts a PCIRegisters plus a fixed (addr, data, status)
// register triple into an eep.WordSource, the way the original driver's
// AR5416_EEPROM_OFFSET/AR5416_EEPROM_ADDR_LO dance works: write the word
// offset, poll the completion bit, read back the word. ReadWord and
// WriteWord poll the status register via eep.PollRegister until
// status&readyMask == readyValue.
type EEPROMWindow struct {
	regs        *PCIRegisters
	addrReg     uint32
	dataReg     uint32
	statusReg   uint32
	readyMask   uint32
	readyValue  uint32
}

// NewEEPROMWindow builds a WordSource view of regs using the given
// addr/data/status register offsets and the bit pattern that marks a
// completed access.
func NewEEPROMWindow(regs *PCIRegisters, addrReg, dataReg, statusReg, readyMask, readyValue uint32) *EEPROMWindow {
	return &EEPROMWindow{regs: regs, addrReg: addrReg, dataReg: dataReg, statusReg: statusReg, readyMask: readyMask, readyValue: readyValue}
}

func (e *EEPROMWindow) ReadWord(ctx context.Context, wordOffset uint32) (uint16, error) {
	if err := e.regs.WriteRegister(ctx, e.addrReg, wordOffset); err != nil {
		return 0, err
	}
	if _, err := eep.PollRegister(ctx, func(ctx context.Context) (uint32, error) {
		return e.regs.ReadRegister(ctx, e.statusReg)
	}, func(v uint32) bool { return v&e.readyMask == e.readyValue }); err != nil {
		return 0, err
	}
	v, err := e.regs.ReadRegister(ctx, e.dataReg)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func (e *EEPROMWindow) WriteWord(ctx context.Context, wordOffset uint32, val uint16) error {
	if err := e.regs.WriteRegister(ctx, e.dataReg, uint32(val)); err != nil {
		return err
	}
	if err := e.regs.WriteRegister(ctx, e.addrReg, wordOffset|0x80000000); err != nil {
		return err
	}
	_, err := eep.PollRegister(ctx, func(ctx context.Context) (uint32, error) {
		return e.regs.ReadRegister(ctx, e.statusReg)
	}, func(v uint32) bool { return v&e.readyMask == e.readyValue })
	return err
}
