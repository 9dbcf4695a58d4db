package menu

// Dispatch codes carried in the "mode" query parameter. Movie flows live in
// the 1xx range, series flows in the 2xx range.
const (
	ModeRootMenu       = 100
	ModeMovieLibrary   = 101
	ModeMovieSearch    = 102
	ModeMovieGenres    = 103
	ModeMovieRecent    = 104
	ModeMovieList      = 107
	ModeMovieYears     = 108
	ModeMoviesByYear   = 109
	ModeMovieStudios   = 110
	ModeMoviesByStudio = 111
	ModeMoviesByGenre  = 112

	ModeSeriesLibrary  = 200
	ModeSeriesOpen     = 201
	ModeSeasonOpen     = 202
	ModeEpisodeDetail  = 203
	ModeSeriesGenres   = 206
	ModeSeriesByGenre  = 207
	ModeSeriesSearch   = 208
	ModeSeriesYears    = 209
	ModeSeriesByYear   = 210
	ModeSeriesStudios  = 211
	ModeSeriesByStudio = 212
	ModeSeriesList     = 213
	ModeRecentSeasons  = 214
	ModeRecentSeries   = 215
)
