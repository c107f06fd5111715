package pe

import "fmt"

// Machine is the target architecture code of the COFF file header.
type Machine uint16

// IMAGE_FILE_MACHINE constants
const (
	ImageFileMachineUnknown     Machine = 0x0
	ImageFileMachineAlpha       Machine = 0x184
	ImageFileMachineAlpha64     Machine = 0x284
	ImageFileMachineAM33        Machine = 0x1d3
	ImageFileMachineAMD64       Machine = 0x8664
	ImageFileMachineARM         Machine = 0x1c0
	ImageFileMachineARM64       Machine = 0xaa64
	ImageFileMachineARM64EC     Machine = 0xa641
	ImageFileMachineARM64X      Machine = 0xa64e
	ImageFileMachineARMNT       Machine = 0x1c4
	ImageFileMachineCHPEX86     Machine = 0x3a64
	ImageFileMachineEBC         Machine = 0xebc
	ImageFileMachineI386        Machine = 0x14c
	ImageFileMachineIA64        Machine = 0x200
	ImageFileMachineLoongArch32 Machine = 0x6232
	ImageFileMachineLoongArch64 Machine = 0x6264
	ImageFileMachineM32R        Machine = 0x9041
	ImageFileMachineMIPS16      Machine = 0x266
	ImageFileMachineMIPSFPU     Machine = 0x366
	ImageFileMachineMIPSFPU16   Machine = 0x466
	ImageFileMachinePowerPC     Machine = 0x1f0
	ImageFileMachinePowerPCFP   Machine = 0x1f1
	ImageFileMachineR3000       Machine = 0x162
	ImageFileMachineR4000       Machine = 0x166
	ImageFileMachineR10000      Machine = 0x168
	ImageFileMachineRISCV32     Machine = 0x5032
	ImageFileMachineRISCV64     Machine = 0x5064
	ImageFileMachineRISCV128    Machine = 0x5128
	ImageFileMachineSH3         Machine = 0x1a2
	ImageFileMachineSH3DSP      Machine = 0x1a3
	ImageFileMachineSH4         Machine = 0x1a6
	ImageFileMachineSH5         Machine = 0x1a8
	ImageFileMachineThumb       Machine = 0x1c2
	ImageFileMachineWCEMIPSv2   Machine = 0x169
)

var machineNames = map[Machine]string{
	ImageFileMachineUnknown:     "UNKNOWN",
	ImageFileMachineAlpha:       "ALPHA",
	ImageFileMachineAlpha64:     "ALPHA64",
	ImageFileMachineAM33:        "AM33",
	ImageFileMachineAMD64:       "AMD64",
	ImageFileMachineARM:         "ARM",
	ImageFileMachineARM64:       "ARM64",
	ImageFileMachineARM64EC:     "ARM64EC",
	ImageFileMachineARM64X:      "ARM64X",
	ImageFileMachineARMNT:       "ARMNT",
	ImageFileMachineCHPEX86:     "CHPE_X86",
	ImageFileMachineEBC:         "EBC",
	ImageFileMachineI386:        "I386",
	ImageFileMachineIA64:        "IA64",
	ImageFileMachineLoongArch32: "LOONGARCH32",
	ImageFileMachineLoongArch64: "LOONGARCH64",
	ImageFileMachineM32R:        "M32R",
	ImageFileMachineMIPS16:      "MIPS16",
	ImageFileMachineMIPSFPU:     "MIPSFPU",
	ImageFileMachineMIPSFPU16:   "MIPSFPU16",
	ImageFileMachinePowerPC:     "POWERPC",
	ImageFileMachinePowerPCFP:   "POWERPCFP",
	ImageFileMachineR3000:       "R3000",
	ImageFileMachineR4000:       "R4000",
	ImageFileMachineR10000:      "R10000",
	ImageFileMachineRISCV32:     "RISCV32",
	ImageFileMachineRISCV64:     "RISCV64",
	ImageFileMachineRISCV128:    "RISCV128",
	ImageFileMachineSH3:         "SH3",
	ImageFileMachineSH3DSP:      "SH3DSP",
	ImageFileMachineSH4:         "SH4",
	ImageFileMachineSH5:         "SH5",
	ImageFileMachineThumb:       "THUMB",
	ImageFileMachineWCEMIPSv2:   "WCEMIPSV2",
}

// Known reports whether m is a documented machine type.
func (m Machine) Known() bool {
	_, ok := machineNames[m]
	return ok
}

// String returns the IMAGE_FILE_MACHINE_ suffix for m, or Unknown(0x....)
// for codes outside the table.
func (m Machine) String() string {
	if name, ok := machineNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%04x)", uint16(m))
}
