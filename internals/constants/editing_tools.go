package constants

// Potongan nama software editing/beautify yang dikenal pada tag EXIF "Software".
// Dicocokkan case-insensitive sebagai substring; satu saja kena ⇒ foto dianggap
// sudah diedit.
var EditingSoftwareDenyList = []string{
	"photoshop",
	"lightroom",
	"adobe",
	"gimp",
	"snapseed",
	"picsart",
	"meitu",
	"beautycam",
	"beautyplus",
	"facetune",
	"vsco",
	"b612",
	"ulike",
}

// Kategori scene yang TIDAK diterima sebagai foto kamar (untuk content check).
var ExcludedSceneCategories = []string{
	"lorong",       // hallway
	"kamar mandi",  // bathroom
	"luar ruangan", // outdoor
	"selfie",
}
