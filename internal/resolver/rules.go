package resolver

import "github.com/teamcutter/xtract/internal/domain"

// Order matters: compound suffixes come before the shorter ones they contain.
var builtinRules = []domain.FormatRule{
	{
		Suffixes: []string{".tar.gz", ".tar.xz", ".tar.bz2", ".tar.zst", ".tgz", ".txz", ".tbz", ".tbz2", ".tzst", ".tar"},
		Command:  []string{"tar", "xvf"},
	},
	{
		Suffixes: []string{".7z", ".chm"},
		Command:  []string{"7z", "x"},
	},
	{
		Suffixes: []string{".zip"},
		Command:  []string{"gbkunzip"},
	},
	{
		Suffixes: []string{".xpi", ".jar", ".apk", ".maff", ".epub", ".crx", ".whl"},
		Command:  []string{"unzip"},
	},
	{
		Suffixes:  []string{".deb", ".udeb", ".ipk"},
		Command:   []string{"bsdtar", "xvf"},
		Container: true,
	},
}

const rarSuffix = ".rar"

var (
	rarAsSevenZip = []string{"7z", "x"}
	rarAsRar      = []string{"rar", "x"}
)

func BuiltinRules() []domain.FormatRule {
	rules := make([]domain.FormatRule, len(builtinRules))
	copy(rules, builtinRules)
	return rules
}
