package common

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"github.com/melodia/agenda_bot/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	eventPaddingX   = 8
	minEventHeight  = 10.0
	totalDaysInWeek = 7
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 8
	defaultMaxHour  = 20
)

// Константы шрифтов
const (
	titleFontSize     = 25.0
	dayFontSize       = 22.0
	hourLabelFontSize = 16.0
	eventFontSize     = 15.0
)

// Цветовая схема сетки
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	headerTextColor  = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 60}
	strikeLineColor  = color.RGBA{40, 40, 40, 220}
	fallbackHexColor = color.RGBA{55, 136, 216, 255} // #3788d8
)

// weekBounds содержит границы недели
type weekBounds struct {
	start time.Time
	end   time.Time
}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var cachedFont *opentype.Font

// loadFont устанавливает шрифт из TTF-файла или basicfont как fallback
func loadFont(dc *gg.Context, fontPath string, size float64) {
	if fontPath == "" {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}

	if cachedFont == nil {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFont = parsed
	}

	face, err := opentype.NewFace(cachedFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// parseHexColor разбирает цвет вида "#rrggbb"
func parseHexColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return fallbackHexColor
	}

	value, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return fallbackHexColor
	}

	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 255,
	}
}

// GenerateAgendaImage рисует неделю с событиями календаря.
// Событиям уже назначены цвета и пометки — рендер только раскладывает
// их по сетке, ничего не зная о статусах занятий.
func GenerateAgendaImage(anchor time.Time, events []model.CalendarEvent, fontPath string) ([]byte, error) {
	week := normalizeToWeekBounds(anchor)
	today := normalizeToDay(time.Now())

	eventsByDay := groupEventsByDay(events, week)
	hours := calculateHourRange(eventsByDay)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week, fontPath)
	drawHourLabels(dc, hours, cellHeight, fontPath)

	currentDate := week.start
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		isToday := isSameDay(currentDate, today)
		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, currentDate, x, y, dayWidth, fontPath)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		dateKey := currentDate.Format("2006-01-02")
		for _, event := range eventsByDay[dateKey] {
			drawEvent(dc, event, x, y, dayWidth, hours, cellHeight, fontPath)
		}

		currentDate = currentDate.AddDate(0, 0, 1)
	}

	return encodeImage(dc)
}

// normalizeToWeekBounds нормализует дату к границам недели (Пн-Вс)
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 6)

	return weekBounds{start: start, end: end}
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// groupEventsByDay группирует события недели по дням
func groupEventsByDay(events []model.CalendarEvent, week weekBounds) map[string][]model.CalendarEvent {
	eventsByDay := make(map[string][]model.CalendarEvent)
	for _, event := range events {
		day := normalizeToDay(event.Start)
		if day.Before(week.start) || day.After(week.end) {
			continue
		}
		dateKey := day.Format("2006-01-02")
		eventsByDay[dateKey] = append(eventsByDay[dateKey], event)
	}
	return eventsByDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(eventsByDay map[string][]model.CalendarEvent) hourRange {
	minHour := 24
	maxHour := 0

	for _, events := range eventsByDay {
		for _, event := range events {
			startH := event.Start.Hour()
			endH := event.End.Hour()
			if event.End.Minute() > 0 {
				endH++
			}
			if startH < minHour {
				minHour = startH
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// drawHeader рисует заголовок с границами недели
func drawHeader(dc *gg.Context, week weekBounds, fontPath string) {
	title := week.start.Format("02.01") + " — " + week.end.Format("02.01.2006")

	loadFont(dc, fontPath, titleFontSize)
	dc.SetColor(headerTextColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/3, 0.5, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64, fontPath string) {
	loadFont(dc, fontPath, hourLabelFontSize)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := strconv.Itoa(actualHour) + ":00"
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон колонки дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	if isToday {
		dc.SetColor(todayBgColor)
		dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
		dc.Fill()
	}
}

// drawDayHeader рисует подпись дня над колонкой
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int, fontPath string) {
	weekdays := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	label := weekdays[int(date.Weekday())] + " " + date.Format("02.01")

	loadFont(dc, fontPath, dayFontSize)
	dc.SetColor(headerTextColor)
	dc.DrawStringAnchored(label, x+float64(dayWidth)/2, y-float64(headerHeight)/4, 0.5, 0.5)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLineColor)
	dc.SetLineWidth(0.5)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		lineY := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, lineY, x+float64(dayWidth), lineY)
		dc.Stroke()
	}
}

// drawEvent рисует блок события в колонке дня
func drawEvent(dc *gg.Context, event model.CalendarEvent, x, y float64, dayWidth int, hours hourRange, cellHeight float64, fontPath string) {
	startMinutes := float64(event.Start.Hour()-hours.start)*60 + float64(event.Start.Minute())
	endMinutes := float64(event.End.Hour()-hours.start)*60 + float64(event.End.Minute())

	top := y + startMinutes/60*cellHeight
	height := (endMinutes - startMinutes) / 60 * cellHeight
	if height < minEventHeight {
		height = minEventHeight
	}

	left := x + eventPaddingX
	width := float64(dayWidth) - 2*eventPaddingX

	dc.SetColor(parseHexColor(event.Color))
	dc.DrawRoundedRectangle(left, top, width, height, 5)
	dc.Fill()

	label := event.Start.Format("15:04") + " " + event.Title
	loadFont(dc, fontPath, eventFontSize)
	dc.SetColor(parseHexColor(event.TextColor))
	dc.DrawStringAnchored(label, left+width/2, top+height/2, 0.5, 0.5)

	// Отменённое занятие перечёркивается
	if event.Struck {
		textWidth, _ := dc.MeasureString(label)
		dc.SetColor(strikeLineColor)
		dc.SetLineWidth(1.5)
		dc.DrawLine(left+width/2-textWidth/2, top+height/2, left+width/2+textWidth/2, top+height/2)
		dc.Stroke()
	}
}

// encodeImage кодирует полотно в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
