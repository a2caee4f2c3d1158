package bots

import (
	"fmt"

	"github.com/jkorri/spotthebot/internal/errors"
	"github.com/jkorri/spotthebot/internal/random"
)

// Curated bot display names. The joke is part of the game: names that sound
// suspicious cut both ways when humans try to spot the real bots.
var botNames = []string{
	"BotMcBotface",
	"RoboReply",
	"ChatGPTea",
	"ByteMe",
	"HelloWorld",
	"SyntaxError",
	"NullPointer",
	"BinaryBuddy",
	"PixelPal",
	"CodeMonkey",
	"BugHunter",
	"AlgoRhythm",
	"DataDan",
	"LogicLarry",
	"StackOverflow",
	"MemoryLeak",
	"RecursiveRay",
	"AsyncAwait",
	"JSONJason",
	"APIAnna",
}

var (
	nameAdjectives = []string{"Sneaky", "Curious", "Witty", "Quiet", "Rapid", "Fuzzy", "Shiny", "Clever"}
	nameNouns      = []string{"Otter", "Falcon", "Cactus", "Pickle", "Comet", "Walrus", "Teapot", "Badger"}
)

// GenerateNames returns count display names unique among themselves and
// against usedNames. It draws from the curated list first and falls back to
// random adjective-noun combinations when the list runs dry.
func GenerateNames(count int, usedNames []string) ([]string, error) {
	used := make(map[string]struct{}, len(usedNames))
	for _, name := range usedNames {
		used[name] = struct{}{}
	}

	available := make([]string, 0, len(botNames))
	for _, name := range botNames {
		if _, taken := used[name]; !taken {
			available = append(available, name)
		}
	}
	shuffled, err := random.Shuffle(available)
	if err != nil {
		return nil, errors.Wrap(err, "shuffle bot names")
	}

	names := make([]string, 0, count)
	for _, name := range shuffled {
		if len(names) == count {
			return names, nil
		}
		names = append(names, name)
		used[name] = struct{}{}
	}

	for len(names) < count {
		name, err := composeName()
		if err != nil {
			return nil, err
		}
		if _, taken := used[name]; taken {
			continue
		}
		names = append(names, name)
		used[name] = struct{}{}
	}
	return names, nil
}

func composeName() (string, error) {
	adjectiveIdx, err := random.Int(len(nameAdjectives))
	if err != nil {
		return "", errors.Wrap(err, "pick adjective")
	}
	nounIdx, err := random.Int(len(nameNouns))
	if err != nil {
		return "", errors.Wrap(err, "pick noun")
	}
	suffix, err := random.Int(100)
	if err != nil {
		return "", errors.Wrap(err, "pick suffix")
	}
	return fmt.Sprintf("%s%s%02d", nameAdjectives[adjectiveIdx], nameNouns[nounIdx], suffix), nil
}
