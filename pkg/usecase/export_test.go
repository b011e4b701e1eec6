package usecase

// DetectContentType is exported for testing
var DetectContentType = detectContentType
