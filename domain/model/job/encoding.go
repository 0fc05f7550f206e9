package job

type Format string

const (
	FormatMP4 = Format("mp4")
	FormatTS  = Format("ts")
)

func (f Format) String() string {
	return string(f)
}

// 不明なものは mp4 にする
func ParseFormat(s string) Format {
	if Format(s) == FormatTS {
		return FormatTS
	}
	return FormatMP4
}

type Encoding struct {
	// libx264 の preset
	Preset string

	// libx264 の crf
	CRF int

	Format Format
}

func DefaultEncoding() Encoding {
	return Encoding{Preset: "fast", CRF: 23, Format: FormatMP4}
}

// ゼロ値のフィールドを def で埋める
func (e Encoding) WithDefaults(def Encoding) Encoding {
	if e.Preset == "" {
		e.Preset = def.Preset
	}
	if e.CRF == 0 {
		e.CRF = def.CRF
	}
	if e.Format == "" {
		e.Format = def.Format
	}
	return e
}
