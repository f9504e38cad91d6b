package repository

import (
	"context"

	"farmmart/internal/domain/model"
)

// 出品者ディレクトリの保存・取得を約束。
// レコードの不存在は「まだ出品者ではない」という意味のある状態なので、
// FindByUserID は見つからないとき ErrNotFound を返し、呼び側で解釈する。
type SellerRepository interface {
	//作成または上書き（承認・書類提出で使う）
	Upsert(ctx context.Context, seller model.Seller) error
	//UserIDから1件取得
	FindByUserID(ctx context.Context, userID int64) (model.Seller, error)
	//停止時はフラグではなく行ごと削除して再審査に戻す
	Delete(ctx context.Context, userID int64) error
	//公開ディレクトリ（ACTIVEのみ）
	ListActive(ctx context.Context) ([]model.Seller, error)
	//ACTIVEな出品者数（管理ダッシュボード用）
	CountActive(ctx context.Context) (int64, error)
	//totalSalesを更新（配達完了時の読み出しモデル反映）
	UpdateTotalSales(ctx context.Context, userID int64, totalSales int64) error
}
