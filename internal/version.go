package internal

// Version is the vocabdeck release version
const Version = "0.3.0"
