package dto

type PluginInfo struct {
	Name    string
	Version string
	Enabled bool
	Binary  string
	Formats []string
}

type DoctorResult struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Error           string
}

type ExportInput struct {
	PluginName string
	Format     string
	Title      string
	Columns    []string
	Rows       [][]string
}

type ExportOutput struct {
	PluginName string
	Format     string
	Content    []byte
	MediaType  string
	FileExt    string
}
