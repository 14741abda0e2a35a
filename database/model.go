package database

// Rollup tables as the batch loader lays them out. The SQL session migrates
// them so an empty development database can be queried right away.

type User struct {
	UsuarioID int    `gorm:"column:usuario_id;primaryKey;autoIncrement:false"`
	Nombre    string `gorm:"column:nombre"`
	Ciudad    string `gorm:"column:ciudad"`
}

func (User) TableName() string { return "usuarios" }

type Song struct {
	CancionID int    `gorm:"column:cancion_id;primaryKey;autoIncrement:false"`
	Titulo    string `gorm:"column:titulo"`
	Artista   string `gorm:"column:artista"`
	Genero    string `gorm:"column:genero"`
}

func (Song) TableName() string { return "canciones" }

type PlaysByGenreMonth struct {
	Genero         string `gorm:"column:genero;primaryKey"`
	Mes            string `gorm:"column:mes;primaryKey"`
	Reproducciones int    `gorm:"column:reproducciones"`
}

func (PlaysByGenreMonth) TableName() string { return "reproducciones_por_genero_mes" }

type PlaysByArtistMonth struct {
	Artista        string `gorm:"column:artista;primaryKey"`
	Mes            string `gorm:"column:mes;primaryKey"`
	Reproducciones int    `gorm:"column:reproducciones"`
}

func (PlaysByArtistMonth) TableName() string { return "reproducciones_por_artista_mes" }

type PlaysByCityGenre struct {
	Ciudad         string `gorm:"column:ciudad;primaryKey"`
	Genero         string `gorm:"column:genero;primaryKey"`
	Reproducciones int    `gorm:"column:reproducciones"`
}

func (PlaysByCityGenre) TableName() string { return "reproducciones_por_ciudad_genero" }

type TopSongByUser struct {
	IDUsuario           int `gorm:"column:id_usuario;primaryKey;autoIncrement:false"`
	TotalReproducciones int `gorm:"column:total_reproducciones;primaryKey;autoIncrement:false"`
	IDCancion           int `gorm:"column:id_cancion;primaryKey;autoIncrement:false"`
}

func (TopSongByUser) TableName() string { return "top_canciones_por_usuario" }

type DailyTrend struct {
	Fecha               string `gorm:"column:fecha;primaryKey"`
	TotalReproducciones int    `gorm:"column:total_reproducciones"`
}

func (DailyTrend) TableName() string { return "tendencia_por_dia" }

func models() []any {
	return []any{
		&User{},
		&Song{},
		&PlaysByGenreMonth{},
		&PlaysByArtistMonth{},
		&PlaysByCityGenre{},
		&TopSongByUser{},
		&DailyTrend{},
	}
}
