package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&UserBookRelationModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. IsStaff只能由运维直接改库授予,没有对应的API
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	IsStaff   bool           `gorm:"default:false;comment:特权标记"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. OwnerID为0表示无主图书(历史数据),不建外键
// 3. Rating是评分聚合器维护的存储字段,NULL表示无人评分;
//    点赞数没有对应的列,读取时对关系表分组统计
// 4. 图书不支持删除,所以没有软删除列
type BookModel struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"index:idx_search;size:255;not null;comment:书名"` // 搜索索引
	Price      int64     `gorm:"index:idx_list;not null;comment:价格(分)"`         // 过滤/排序索引
	AuthorName string    `gorm:"index:idx_search;size:255;not null;comment:作者"` // 搜索/排序索引
	OwnerID    uint      `gorm:"index;not null;default:0;comment:创建者用户ID(0=无主)"`
	Rating     *float64  `gorm:"type:decimal(3,2);comment:平均评分(NULL=无评分)"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// UserBookRelationModel GORM用户图书关系模型
// 设计说明:
// 1. (user_id,book_id)复合唯一索引:并发首次触达时两个INSERT只会成功一个,
//    撞到重复键的一方重查即可,保证至多一条的不变式
// 2. 列名用liked而非like(LIKE是MySQL保留字)
// 3. Rate可空(tinyint):NULL表示未评分
// 4. 关系不支持删除,没有软删除列(软删除会破坏唯一索引)
type UserBookRelationModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_book;not null;comment:用户ID"`
	BookID      uint      `gorm:"uniqueIndex:idx_user_book;index;not null;comment:图书ID"`
	Liked       bool      `gorm:"default:false;comment:是否点赞"`
	InBookmarks bool      `gorm:"default:false;comment:是否收藏"`
	Rate        *int      `gorm:"type:tinyint;comment:评分0-5(NULL=未评分)"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserBookRelationModel) TableName() string {
	return "user_book_relations"
}
