package papermc

import "time"

// ProjectList is the response of the projects index
type ProjectList struct {
	Projects []string `json:"projects" yaml:"projects" validate:"required"`
}

// Project describes a single project and the versions it ships
type Project struct {
	ProjectID     string   `json:"project_id" yaml:"project_id" validate:"required"`
	ProjectName   string   `json:"project_name" yaml:"project_name" validate:"required"`
	VersionGroups []string `json:"version_groups" yaml:"version_groups" validate:"required"`
	Versions      []string `json:"versions" yaml:"versions" validate:"required"`
}

// VersionGroup describes a server-defined group of related versions
type VersionGroup struct {
	ProjectID    string   `json:"project_id" yaml:"project_id" validate:"required"`
	ProjectName  string   `json:"project_name" yaml:"project_name" validate:"required"`
	VersionGroup string   `json:"version_group" yaml:"version_group" validate:"required"`
	Versions     []string `json:"versions" yaml:"versions" validate:"required"`
}

// VersionGroupBuilds is a version group together with every build it contains
type VersionGroupBuilds struct {
	VersionGroup `yaml:",inline"`
	Builds       []Build `json:"builds" yaml:"builds" validate:"required,dive"`
}

// Version describes a release line of a project
type Version struct {
	ProjectID   string `json:"project_id" yaml:"project_id" validate:"required"`
	ProjectName string `json:"project_name" yaml:"project_name" validate:"required"`
	Version     string `json:"version" yaml:"version" validate:"required"`
	Builds      []int  `json:"builds" yaml:"builds" validate:"required"`
}

// Build is a numbered, immutable artifact of a project at a version. The
// number is a pointer so an absent field is told apart from build 0.
type Build struct {
	Build     *int      `json:"build" yaml:"build" validate:"required"`
	Time      time.Time `json:"time" yaml:"time" validate:"required"`
	Version   string    `json:"version" yaml:"version" validate:"required"`
	Changes   []Change  `json:"changes" yaml:"changes" validate:"required,dive"`
	Downloads Downloads `json:"downloads" yaml:"downloads"`
}

// Number returns the build number, 0 when unset
func (b *Build) Number() int {
	if b.Build == nil {
		return 0
	}
	return *b.Build
}

// VersionBuild is the response of the version+build endpoint
type VersionBuild struct {
	ProjectID   string `json:"project_id" yaml:"project_id" validate:"required"`
	ProjectName string `json:"project_name" yaml:"project_name" validate:"required"`
	Build       `yaml:",inline"`
}

// Change is a single commit that went into a build
type Change struct {
	Commit  string `json:"commit" yaml:"commit" validate:"required"`
	Summary string `json:"summary" yaml:"summary"`
	Message string `json:"message" yaml:"message"`
}

// Downloads holds the artifacts published for a build
type Downloads struct {
	Application Download `json:"application" yaml:"application"`
}

// Download identifies an artifact by file name and SHA-256 checksum
type Download struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	SHA256 string `json:"sha256" yaml:"sha256" validate:"required"`
}
