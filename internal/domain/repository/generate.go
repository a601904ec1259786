package repository

//go:generate mockgen -source=product_repository.go -destination=mocks/product_repository_mock.go -package=mocks
//go:generate mockgen -source=sales_repository.go -destination=mocks/sales_repository_mock.go -package=mocks
//go:generate mockgen -source=ai_generation_repository.go -destination=mocks/ai_generation_repository_mock.go -package=mocks
//go:generate mockgen -source=notification_repository.go -destination=mocks/notification_repository_mock.go -package=mocks
//go:generate mockgen -source=user_repository.go -destination=mocks/user_repository_mock.go -package=mocks
