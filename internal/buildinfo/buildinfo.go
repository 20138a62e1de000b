package buildinfo

const Graffiti = " _  __ _   _  _____ \n| |/ /| \\ | |/ ____|\n| ' / |  \\| | |     \n| . \\ | . ` | |     \n| |\\ \\| |\\  | |____ \n|_| \\_\\_| \\_|\\_____|\n\n"

var (
	BuildTag string = "v0.0.0"
	Name     string = "KNC"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
