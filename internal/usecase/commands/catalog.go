package commands

// CommandDescriptor expone metadatos de cada comando interno para la ayuda.
type CommandDescriptor struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
}

// BuiltinCommandCatalog describe los comandos que vienen incluidos en el bot.
// Usage usa "{prefix}" como marcador del prefijo configurado.
func BuiltinCommandCatalog() []CommandDescriptor {
	return []CommandDescriptor{
		{
			Name:        "trivia",
			Description: "Asks a multiple choice question. Reply with the number of your answer.",
			Usage:       "{prefix}trivia",
		},
		{
			Name:        "weather",
			Description: "Shows the current weather for a city.",
			Usage:       "{prefix}weather <city>",
		},
		{
			Name:        "pokedex_entry",
			Description: "Tells you which Pokemon has that National Pokedex number.",
			Usage:       "{prefix}pokedex_entry <number>",
		},
		{
			Name:        "anime_desc",
			Description: "Looks up the description of an anime, manga or character.",
			Usage:       "{prefix}anime_desc <name>",
		},
		{
			Name:        "help",
			Description: "Lists the commands, or shows how to use one of them.",
			Usage:       "{prefix}help [command]",
		},
	}
}

// Describe busca un comando del catálogo por nombre o alias.
func Describe(name string) (CommandDescriptor, bool) {
	for _, d := range BuiltinCommandCatalog() {
		if d.Name == name {
			return d, true
		}
		for _, alias := range d.Aliases {
			if alias == name {
				return d, true
			}
		}
	}
	return CommandDescriptor{}, false
}
