package main

import "github.com/charmbracelet/lipgloss"

// --- STYLES ---
var (
	// Card palette
	outlineColor  = lipgloss.Color("#a71d31")
	envelopeColor = lipgloss.Color("#ff8fab")
	interiorColor = lipgloss.Color("#ffb3c1")
	sealColor     = lipgloss.Color("#c9184a")
	paperColor    = lipgloss.Color("#fcfcf9")
	flowerPaper   = lipgloss.Color("#efeee5")
	inkColor      = lipgloss.Color("#2c2c2c")
	softInkColor  = lipgloss.Color("#444444")
	captionColor  = lipgloss.Color("#d63384")

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Envelope styles
	envelopeEdgeStyle = lipgloss.NewStyle().Foreground(outlineColor).Background(envelopeColor)
	envelopeFillStyle = lipgloss.NewStyle().Background(envelopeColor)
	interiorStyle     = lipgloss.NewStyle().Foreground(outlineColor).Background(interiorColor)
	sealStyle         = lipgloss.NewStyle().Foreground(sealColor).Background(envelopeColor).Bold(true)
	shadowStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#d8a7b1"))

	// Letter styles
	letterStyle = lipgloss.NewStyle().
			Foreground(inkColor).
			Background(paperColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#c8c8c0")).
			BorderBackground(paperColor).
			Padding(0, 2)
	introStyle    = lipgloss.NewStyle().Foreground(softInkColor).Background(paperColor).Italic(true)
	greetingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1a1a1a")).Background(paperColor).Bold(true)
	bodyStyle     = lipgloss.NewStyle().Foreground(inkColor).Background(paperColor)
	signOffStyle  = lipgloss.NewStyle().Foreground(softInkColor).Background(paperColor).Italic(true).Faint(true)
	senderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1a1a1a")).Background(paperColor).Bold(true)

	// Flower scene styles
	flowerCardStyle = lipgloss.NewStyle().
			Background(flowerPaper).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#c8c8c0")).
			BorderBackground(flowerPaper).
			Padding(1, 2)
	petalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffc300")).Background(flowerPaper).Bold(true)
	centerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3d1d09")).Background(flowerPaper).Bold(true)
	stemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2d5a27")).Background(flowerPaper)
	leafStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3a6b35")).Background(flowerPaper)
	bowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f472b6")).Background(flowerPaper).Bold(true)
	breathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(flowerPaper)
	captionStyle = lipgloss.NewStyle().Foreground(captionColor).Background(flowerPaper).Italic(true)
	paperStyle   = lipgloss.NewStyle().Background(flowerPaper)

	// Status styles
	copySuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Floating hearts
	heartColors = []lipgloss.Color{"#ff4d6d", "#ff758f", "#ff8fa3", "#c9184a", "#ffb3c1", "#fae1dd"}
)
