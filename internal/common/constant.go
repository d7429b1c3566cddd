package common

// HistoryKey is the default key under which the whole list history is kept
// in the local key/value storage.
const HistoryKey = "matchesHistory"

// MinParticipants is the smallest list size that can produce matches.
const MinParticipants = 2
