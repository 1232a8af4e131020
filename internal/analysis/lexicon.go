package analysis

import "strings"

// wordSet is a membership set over lowercase words.
type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func (s wordSet) contains(word string) bool {
	_, ok := s[word]
	return ok
}

// containsAny reports whether any word from the set appears in the
// lowercased text.
func (s wordSet) containsAny(text string) bool {
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if s.contains(strings.Trim(w, ".,!?;:'\"")) {
			return true
		}
	}
	return false
}

// commonWords is a compact recognition lexicon of everyday English. Words
// outside it (after stripping punctuation) count as probable misspellings
// during vocabulary scoring. It is intentionally a rough filter, not a
// dictionary.
var commonWords = newWordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "can", "must", "shall",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
	"this", "that", "these", "those", "my", "your", "his", "its", "our", "their",
	"hello", "hi", "how", "fine", "good", "bad", "yes", "no", "thank", "thanks",
	"please", "sorry", "excuse", "name", "what", "where", "when", "why", "who", "which",
	"go", "come", "see", "look", "hear", "listen", "speak", "talk", "say", "tell",
	"know", "think", "believe", "want", "need", "like", "love", "hate", "feel",
	"make", "take", "give", "get", "put", "find", "work", "play", "eat", "drink",
	"sleep", "walk", "run", "sit", "stand", "open", "close", "start", "stop", "help",
	"time", "day", "night", "morning", "evening", "week", "month", "year", "today", "tomorrow",
	"yesterday", "now", "then", "here", "there", "up", "down", "left", "right", "front", "back",
	"big", "small", "large", "little", "old", "new", "young", "hot", "cold", "warm", "cool",
	"fast", "slow", "quick", "easy", "hard", "difficult", "simple", "complex", "important",
	"beautiful", "ugly", "nice", "great", "wonderful", "terrible", "excellent", "perfect",
	"happy", "sad", "angry", "excited", "nervous", "calm", "tired", "busy", "free", "ready",
	"sure", "certain", "possible", "impossible", "necessary", "enough", "too", "very", "quite",
	"really", "actually", "finally", "suddenly", "usually", "always", "never", "sometimes",
	"often", "rarely", "almost", "nearly", "exactly", "about", "around", "between", "among",
	"through", "across", "over", "under", "above", "below", "inside", "outside", "near", "far",
	"first", "second", "third", "last", "next", "previous", "other", "another", "same", "different",
	"each", "every", "all", "some", "many", "much", "few", "more", "most", "less", "least",
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"hundred", "thousand", "million", "billion", "number", "amount", "quantity", "size", "length",
	"width", "height", "weight", "price", "cost", "money", "dollar", "cent", "euro", "pound",
	"house", "home", "room", "door", "window", "wall", "floor", "ceiling", "bed", "chair", "table",
	"car", "bus", "train", "plane", "boat", "bike", "bicycle", "motorcycle", "truck", "taxi",
	"food", "water", "bread", "meat", "fish", "chicken", "beef", "pork", "vegetable", "fruit",
	"apple", "banana", "orange", "grape", "strawberry", "milk", "coffee", "tea", "juice", "beer",
	"wine", "cake", "cookie", "candy", "chocolate", "ice", "cream", "sugar", "salt", "pepper",
	"family", "mother", "father", "parent", "child", "son", "daughter", "brother", "sister",
	"grandmother", "grandfather", "uncle", "aunt", "cousin", "friend", "neighbor", "teacher",
	"student", "doctor", "nurse", "police", "firefighter", "engineer", "lawyer", "artist",
	"musician", "singer", "dancer", "actor", "writer", "journalist", "photographer", "cook",
	"waiter", "driver", "pilot", "sailor", "farmer", "worker", "manager", "boss", "employee",
	"company", "business", "office", "factory", "hospital", "school", "university", "library",
	"museum", "theater", "cinema", "restaurant", "hotel", "shop", "store", "market", "bank",
	"post", "station", "airport", "park", "garden", "beach", "mountain", "river",
	"lake", "ocean", "sea", "forest", "desert", "city", "town", "village", "country", "world",
	"earth", "sky", "sun", "moon", "star", "cloud", "rain", "snow", "wind", "storm", "weather",
	"spring", "summer", "autumn", "winter", "season", "temperature", "climate", "nature",
	"animal", "dog", "cat", "bird", "horse", "cow", "pig", "sheep", "duck",
	"elephant", "lion", "tiger", "bear", "wolf", "fox", "rabbit", "mouse", "snake", "spider",
	"tree", "flower", "grass", "leaf", "root", "branch", "seed", "plant",
	"book", "page", "story", "novel", "magazine", "newspaper", "letter", "email", "message",
	"phone", "computer", "internet", "website", "television", "radio", "music", "song", "movie",
	"game", "sport", "football", "basketball", "tennis", "golf", "swimming", "running", "cycling",
	"dancing", "singing", "reading", "writing", "drawing", "painting", "photography", "cooking",
	"shopping", "traveling", "vacation", "holiday", "party", "celebration", "birthday", "wedding",
	"funeral", "meeting", "conference", "interview", "presentation", "speech", "lecture", "class",
	"lesson", "homework", "exam", "test", "grade", "score", "result", "success", "failure",
	"problem", "solution", "question", "answer", "idea", "opinion", "fact", "truth", "lie",
	"secret", "mystery", "adventure", "journey", "trip", "visit", "tour", "guide", "map",
	"direction", "way", "path", "road", "street", "address", "location", "place", "position",
	"job", "career", "profession", "task", "project", "plan", "goal", "dream", "hope",
	"wish", "desire", "choice", "decision", "option", "possibility", "chance", "opportunity",
	"risk", "danger", "safety", "security", "protection", "support", "assistance",
	"advice", "suggestion", "recommendation", "instruction", "rule", "law", "regulation",
	"policy", "agreement", "contract", "deal", "bargain", "discount", "sale", "offer",
	"request", "demand", "order", "command", "permission", "allowance", "freedom", "right",
	"responsibility", "duty", "obligation", "promise", "commitment", "loyalty", "trust",
	"honesty", "integrity", "character", "personality", "behavior", "attitude", "mood",
	"emotion", "feeling", "sensation", "experience", "memory", "thought", "mind", "brain",
	"heart", "soul", "spirit", "life", "death", "birth", "age", "health", "illness", "disease",
	"medicine", "drug", "treatment", "therapy", "cure", "recovery", "healing", "pain",
	"injury", "wound", "cut", "bruise", "burn", "fever", "flu", "headache", "stomach",
	"tooth", "eye", "ear", "nose", "mouth", "hand", "finger", "arm", "leg", "foot", "head",
	"face", "hair", "skin", "blood", "bone", "muscle", "nerve", "organ", "body", "human",
	"person", "people", "man", "woman", "boy", "girl", "baby", "adult", "teenager", "elderly",
)

// advancedWords marks vocabulary that suggests an upper-level learner.
var advancedWords = newWordSet(
	"sophisticated", "comprehensive", "implementation", "paradigm", "methodology",
	"contemporary", "multifaceted", "stakeholders", "prioritize", "simultaneously",
	"fundamentally", "transformed", "revolution", "artificial", "intelligence",
	"healthcare", "systems", "regulatory", "frameworks", "nevertheless",
	"outweigh", "inherent", "properly", "managed", "consequently",
	"reevaluation", "traditional", "embracing", "technological", "innovation",
	"ethical", "considerations", "implications", "necessitate",
)

// Coherence indicator word lists used by comprehension scoring.
var (
	transitionWords = newWordSet(
		"however", "therefore", "moreover", "furthermore", "consequently",
		"meanwhile", "nevertheless", "also", "additionally",
	)

	complexConjunctions = newWordSet(
		"although", "despite", "whereas", "while", "since", "because",
		"if", "when", "after", "before",
	)

	relativePronouns = newWordSet("which", "that", "who")
)
