package namegen

// Word lists are sized so every candidate stays inside the username
// format contract: adjectives run 3-7 letters, nouns 3-6, and the
// two-digit suffix brings the total to at most 15 characters.

var adjectives = []string{
	"Agile", "Amber", "Bold", "Brave",
	"Bright", "Brisk", "Busy", "Calm",
	"Cheery", "Clever", "Cool", "Cosmic",
	"Daring", "Dapper", "Eager", "Epic",
	"Fierce", "Frosty", "Gentle", "Glad",
	"Golden", "Happy", "Humble", "Jolly",
	"Keen", "Kind", "Lively", "Lucky",
	"Lunar", "Mellow", "Merry", "Mighty",
	"Modest", "Nimble", "Noble", "Plucky",
	"Proud", "Quick", "Quiet", "Rapid",
	"Regal", "Royal", "Rustic", "Serene",
	"Sharp", "Shiny", "Silent", "Silver",
	"Sly", "Smart", "Snappy", "Solar",
	"Spry", "Stoic", "Sunny", "Swift",
	"Tidy", "Upbeat", "Vivid", "Warm",
	"Wild", "Wise", "Witty", "Zesty",
}

var nouns = []string{
	"Ant", "Badger", "Bat", "Bear",
	"Beaver", "Bee", "Bison", "Camel",
	"Cat", "Cobra", "Crab", "Crane",
	"Crow", "Deer", "Dingo", "Dove",
	"Duck", "Eagle", "Eel", "Elk",
	"Falcon", "Ferret", "Finch", "Fox",
	"Frog", "Gecko", "Goat", "Goose",
	"Hare", "Hawk", "Heron", "Hippo",
	"Horse", "Hound", "Ibis", "Jackal",
	"Jaguar", "Koala", "Lemur", "Lion",
	"Lizard", "Llama", "Lynx", "Magpie",
	"Mole", "Moose", "Newt", "Ocelot",
	"Orca", "Otter", "Owl", "Panda",
	"Parrot", "Puffin", "Puma", "Quail",
	"Rabbit", "Raven", "Robin", "Seal",
	"Tiger", "Toucan", "Walrus", "Wombat",
}
