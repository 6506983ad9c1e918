package usecase

// Программа на 14 дней по каждому предмету. Для незнакомого предмета
// или дня за пределами программы берем последнюю главу / общую тему.
var curriculum = map[string][]string{
	"Astronomy": {
		"The Solar System: our cosmic neighborhood",
		"The Sun: our closest star",
		"The Moon and its phases",
		"Rocky planets: Mercury, Venus, Earth and Mars",
		"Gas giants: Jupiter and Saturn",
		"Ice giants: Uranus and Neptune",
		"Asteroids, comets and meteors",
		"Stars: birth, life and death",
		"Constellations and the night sky",
		"Galaxies and the Milky Way",
		"Black holes and neutron stars",
		"Telescopes and how we observe space",
		"Space exploration: rockets and missions",
		"The search for life beyond Earth",
	},
	"History": {
		"What is history and why we study it",
		"Ancient Egypt: pyramids and pharaohs",
		"Ancient Greece: city-states and myths",
		"The Roman Empire",
		"The Middle Ages: castles and knights",
		"The Silk Road and great trade routes",
		"The Age of Exploration",
		"The Renaissance: art and science reborn",
		"Revolutions that changed the world",
		"The Industrial Revolution",
		"The twentieth century: a world at war",
		"The Space Race",
		"The digital age",
		"How historians work: sources and evidence",
	},
	"Science": {
		"What is science: asking questions",
		"Matter: solids, liquids and gases",
		"Atoms and molecules",
		"Energy: light, heat and motion",
		"Forces and gravity",
		"Electricity and magnetism",
		"Living things: cells and life",
		"Plants and photosynthesis",
		"Animals and ecosystems",
		"The human body",
		"Weather and climate",
		"The water cycle",
		"Chemistry in everyday life",
		"The scientific method in action",
	},
	"Philosophy": {
		"What is philosophy: learning to wonder",
		"Socrates and the art of asking questions",
		"What is truth?",
		"What is knowledge?",
		"Right and wrong: introduction to ethics",
		"Fairness and justice",
		"What makes a good friend?",
		"Happiness: what makes a good life?",
		"Logic: how to reason well",
		"Beauty and art",
		"Minds and machines: can computers think?",
		"Free will: do we choose our actions?",
		"Stoicism: staying calm in a storm",
		"Big questions about the universe",
	},
}

const generalChapter = "General Learning"

// ChapterFor возвращает тему дня для предмета. День за пределами
// программы прижимается к границам, а не падает с ошибкой.
func ChapterFor(subject string, day int) string {
	chapters, ok := curriculum[subject]
	if !ok {
		return generalChapter
	}
	idx := day - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(chapters) {
		idx = len(chapters) - 1
	}
	return chapters[idx]
}
