// Package report renders a decoded PE header as text or JSON.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/h2non/filetype"

	pe "github.com/wanglei-coder/pehdr"
)

// Reporter formats and prints the header of one file.
type Reporter struct {
	file  *pe.File
	color bool
}

// NewReporter creates a reporter for f with colour output enabled.
func NewReporter(f *pe.File) *Reporter {
	return &Reporter{file: f, color: true}
}

func (r *Reporter) SetColor(enabled bool) {
	r.color = enabled
}

func (r *Reporter) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// WriteText writes the full header report to w.
func (r *Reporter) WriteText(w io.Writer) error {
	var buf bytes.Buffer
	r.printFile(&buf)
	r.printDOSHeader(&buf)
	r.printFileHeader(&buf)
	r.printOptionalHeader(&buf)
	r.printDataDirectories(&buf)
	r.printRichHeader(&buf)
	_, err := w.Write(buf.Bytes())
	return err
}

func (r *Reporter) title(w io.Writer, s string) {
	r.paint(color.FgYellow, color.Bold).Fprintf(w, "\n%s\n", s)
}

func line(w io.Writer, label string, format string, args ...any) {
	fmt.Fprintf(w, "  %-34s: %s\n", label, fmt.Sprintf(format, args...))
}

func (r *Reporter) printFile(w io.Writer) {
	f := r.file
	r.paint(color.FgCyan, color.Bold).Fprintf(w, "PE header report: %s\n", f.Path())
	line(w, "File size", "%s", formatSize(f.Size()))
	line(w, "Detected type", "%s", FileType(f.Data()))
	oh := f.OptionalHeader
	line(w, "Image format", "%s, %d-bit executable", oh.Magic, oh.Magic.Bitness())
}

func (r *Reporter) printDOSHeader(w io.Writer) {
	dos := r.file.DOSHeader
	r.title(w, "DOS Header")
	line(w, "Magic", "0x%04X (MZ)", dos.Magic)
	line(w, "PE header offset (e_lfanew)", "0x%X", dos.AddressOfNewEXEHeader)
	line(w, "Signature", "0x%08X (PE\\0\\0)", r.file.Signature)
}

func (r *Reporter) printFileHeader(w io.Writer) {
	fh := r.file.FileHeader
	r.title(w, "File Header")
	machine := fh.Machine.String()
	if !fh.Machine.Known() {
		machine = r.paint(color.FgRed).Sprint(machine)
	}
	line(w, "Machine", "%s (0x%04X)", machine, uint16(fh.Machine))
	line(w, "Number of sections", "%d", fh.NumberOfSections)
	if t, ok := fh.Time(); ok {
		line(w, "Time/date stamp", "%d (%s)", fh.TimeDateStamp, t.Format("2006-01-02 15:04:05 UTC"))
	} else {
		line(w, "Time/date stamp", "0x%X (not meaningful)", fh.TimeDateStamp)
	}
	line(w, "Pointer to symbol table", "0x%X", fh.PointerToSymbolTable)
	line(w, "Number of symbols", "%d", fh.NumberOfSymbols)
	line(w, "Size of optional header", "%d bytes", fh.SizeOfOptionalHeader)
	line(w, "Characteristics", "0x%04X", uint16(fh.Characteristics))
	for _, flag := range fh.Characteristics.Flags() {
		fmt.Fprintf(w, "  %-34s  IMAGE_FILE_%s\n", "", flag)
	}
}

func (r *Reporter) printOptionalHeader(w io.Writer) {
	oh := r.file.OptionalHeader
	r.title(w, "Optional Header")
	line(w, "Magic", "0x%X (%s)", uint16(oh.Magic), oh.Magic)
	line(w, "Linker version", "%d.%d", oh.MajorLinkerVersion, oh.MinorLinkerVersion)
	line(w, "Size of code", "%d bytes", oh.SizeOfCode)
	line(w, "Size of initialized data", "%d bytes", oh.SizeOfInitializedData)
	line(w, "Size of uninitialized data", "%d bytes", oh.SizeOfUninitializedData)
	line(w, "Address of entry point", "0x%X", oh.AddressOfEntryPoint)
	line(w, "Base of code", "0x%X", oh.BaseOfCode)
	if oh.HasBaseOfData() {
		line(w, "Base of data", "0x%X", oh.BaseOfData)
	}
	line(w, "Image base", "0x%X", oh.ImageBase)
	line(w, "Section alignment", "0x%X", oh.SectionAlignment)
	line(w, "File alignment", "0x%X", oh.FileAlignment)
	line(w, "Operating system version", "%d.%d", oh.MajorOperatingSystemVersion, oh.MinorOperatingSystemVersion)
	line(w, "Image version", "%d.%d", oh.MajorImageVersion, oh.MinorImageVersion)
	line(w, "Subsystem version", "%d.%d", oh.MajorSubsystemVersion, oh.MinorSubsystemVersion)
	line(w, "Size of image", "%d bytes", oh.SizeOfImage)
	line(w, "Size of headers", "%d bytes", oh.SizeOfHeaders)
	line(w, "Checksum", "0x%08X", oh.CheckSum)
	line(w, "Subsystem", "%s (%d)", oh.Subsystem, uint16(oh.Subsystem))
	line(w, "DLL characteristics", "0x%04X", uint16(oh.DllCharacteristics))
	for _, flag := range oh.DllCharacteristics.Flags() {
		fmt.Fprintf(w, "  %-34s  IMAGE_DLLCHARACTERISTICS_%s\n", "", flag)
	}
	line(w, "Size of stack reserve", "%d bytes", oh.SizeOfStackReserve)
	line(w, "Size of stack commit", "%d bytes", oh.SizeOfStackCommit)
	line(w, "Size of heap reserve", "%d bytes", oh.SizeOfHeapReserve)
	line(w, "Size of heap commit", "%d bytes", oh.SizeOfHeapCommit)
	line(w, "Number of data directories", "%d", oh.NumberOfRvaAndSizes)
}

func (r *Reporter) printDataDirectories(w io.Writer) {
	dirs := r.file.DataDirectories
	r.title(w, fmt.Sprintf("Data Directories (%d)", len(dirs)))
	if len(dirs) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	fmt.Fprintf(w, "  %-26s %-12s %s\n", "Name", "RVA", "Size")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 60))
	absent := r.paint(color.FgHiBlack)
	for _, d := range dirs {
		if !d.Present() {
			absent.Fprintf(w, "  %-26s %-12s %s\n", d.Entry, "-", "(absent)")
			continue
		}
		fmt.Fprintf(w, "  %-26s 0x%08X   %s\n", d.Entry, d.VirtualAddress, formatSize(int64(d.Size)))
	}
}

func (r *Reporter) printRichHeader(w io.Writer) {
	rh := r.file.RichHeader
	if rh == nil {
		return
	}
	r.title(w, "Rich Header")
	line(w, "Offset", "0x%X", rh.DansOffset)
	if rh.Valid() {
		line(w, "XOR key", "0x%08X (%s)", rh.XorKey, r.paint(color.FgGreen).Sprint("checksum valid"))
	} else {
		line(w, "XOR key", "0x%08X (%s 0x%08X)", rh.XorKey,
			r.paint(color.FgRed).Sprint("checksum mismatch, computed"), rh.Checksum())
	}
	line(w, "Hash", "%s", rh.Hash())
	for _, id := range rh.CompIDs {
		fmt.Fprintf(w, "  %-34s  prodid %5d  build %5d  count %d\n", "", id.ProdID, id.MinorCV, id.Count)
	}
}

// Failure writes a labelled decode failure for path.
func Failure(w io.Writer, path string, err error, colored bool) {
	c := color.New(color.FgRed, color.Bold)
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	if kind := pe.Kind(err); kind != "" {
		c.Fprintf(w, "%s: %s check failed: %v\n", path, kind, err)
		return
	}
	c.Fprintf(w, "%s: %v\n", path, err)
}

// FileType sniffs the MIME type of the leading bytes.
func FileType(data []byte) string {
	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown {
		return "Data"
	}
	return kind.MIME.Value
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
