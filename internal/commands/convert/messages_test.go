package convertcmd

import "testing"

func TestConvertPackageCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     ConvertPackageCommand
		wantErr bool
	}{
		{name: "valid", cmd: ConvertPackageCommand{Input: "bank.zip", Output: "out/exam.tex"}},
		{name: "upper case extension", cmd: ConvertPackageCommand{Input: "bank", Output: "EXAM.TEX"}},
		{name: "missing input", cmd: ConvertPackageCommand{Output: "exam.tex"}, wantErr: true},
		{name: "blank input", cmd: ConvertPackageCommand{Input: "  ", Output: "exam.tex"}, wantErr: true},
		{name: "missing output", cmd: ConvertPackageCommand{Input: "bank"}, wantErr: true},
		{name: "wrong extension", cmd: ConvertPackageCommand{Input: "bank", Output: "exam.pdf"}, wantErr: true},
		{name: "dot in directory only", cmd: ConvertPackageCommand{Input: "bank", Output: "v1.tex/exam"}, wantErr: true},
		{name: "report overwrites output", cmd: ConvertPackageCommand{Input: "bank", Output: "exam.tex", ReportFile: "exam.tex"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestConvertPackageCommandType(t *testing.T) {
	if got := (ConvertPackageCommand{}).Type(); got != "qti2tex.convert.package" {
		t.Fatalf("unexpected message type %q", got)
	}
}
