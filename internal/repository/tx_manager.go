package repository

import "context"

// トランザクション内で使う約束。
// 承認・却下・停止やチェックアウトのような複数ドキュメント更新は
// 必ずこの中で行い、部分適用を外に見せない。
type TxRepos interface {
	Users() UserRepository
	Sellers() SellerRepository
	Products() ProductRepository
	CartItems() CartItemRepository
	Orders() OrderRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
