package seed

// Entry is a single resource in the YAML seed file.
type Entry struct {
	Title    string   `yaml:"title"`
	URL      string   `yaml:"url"`
	Category string   `yaml:"category"`
	Level    string   `yaml:"level"`
	Tags     []string `yaml:"tags"`
}

// File is the root structure of the seed file.
type File struct {
	Resources []Entry `yaml:"resources"`
}
