package pe

import "fmt"

// Subsystem is the Windows subsystem required to run an image.
type Subsystem uint16

// IMAGE_SUBSYSTEM constants
const (
	ImageSubsystemUnknown                Subsystem = 0
	ImageSubsystemNative                 Subsystem = 1
	ImageSubsystemWindowsGUI             Subsystem = 2
	ImageSubsystemWindowsCUI             Subsystem = 3
	ImageSubsystemOS2CUI                 Subsystem = 5
	ImageSubsystemPosixCUI               Subsystem = 7
	ImageSubsystemNativeWindows          Subsystem = 8
	ImageSubsystemWindowsCEGUI           Subsystem = 9
	ImageSubsystemEFIApplication         Subsystem = 10
	ImageSubsystemEFIBootServiceDriver   Subsystem = 11
	ImageSubsystemEFIRuntimeDriver       Subsystem = 12
	ImageSubsystemEFIROM                 Subsystem = 13
	ImageSubsystemXBOX                   Subsystem = 14
	ImageSubsystemWindowsBootApplication Subsystem = 16
)

var subsystemNames = map[Subsystem]string{
	ImageSubsystemUnknown:                "UNKNOWN",
	ImageSubsystemNative:                 "NATIVE",
	ImageSubsystemWindowsGUI:             "WINDOWS_GUI",
	ImageSubsystemWindowsCUI:             "WINDOWS_CUI",
	ImageSubsystemOS2CUI:                 "OS2_CUI",
	ImageSubsystemPosixCUI:               "POSIX_CUI",
	ImageSubsystemNativeWindows:          "NATIVE_WINDOWS",
	ImageSubsystemWindowsCEGUI:           "WINDOWS_CE_GUI",
	ImageSubsystemEFIApplication:         "EFI_APPLICATION",
	ImageSubsystemEFIBootServiceDriver:   "EFI_BOOT_SERVICE_DRIVER",
	ImageSubsystemEFIRuntimeDriver:       "EFI_RUNTIME_DRIVER",
	ImageSubsystemEFIROM:                 "EFI_ROM",
	ImageSubsystemXBOX:                   "XBOX",
	ImageSubsystemWindowsBootApplication: "WINDOWS_BOOT_APPLICATION",
}

func (s Subsystem) Known() bool {
	_, ok := subsystemNames[s]
	return ok
}

func (s Subsystem) String() string {
	if name, ok := subsystemNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(s))
}
